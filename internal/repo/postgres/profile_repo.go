package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrPreferencesNotFound = errors.New("preference record not found")
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `
	user_id,
	COALESCE(display_name, ''),
	birthdate,
	COALESCE(location, ''),
	COALESCE(country_of_origin, ''),
	COALESCE(nationality, ''),
	COALESCE(religion, ''),
	COALESCE(ethnicity, ''),
	COALESCE(secondary_tribes, '{}'),
	suspended,
	suspension_expires_at,
	hidden,
	activated,
	verified,
	online,
	last_active_at,
	updated_at,
	COALESCE(has_children, ''),
	COALESCE(wants_children, ''),
	COALESCE(smoking, ''),
	COALESCE(drinking, ''),
	COALESCE(bio, ''),
	COALESCE(education_level, ''),
	COALESCE(high_school, ''),
	COALESCE(profession, ''),
	COALESCE(body_type, ''),
	COALESCE(relationship_goal, '')`

func (r *ProfileRepo) GetProfile(ctx context.Context, userID int64) (matching.Profile, error) {
	if userID <= 0 {
		return matching.Profile{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return matching.Profile{}, ErrProfileNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return matching.Profile{}, ErrProfileNotFound
		}
		return matching.Profile{}, fmt.Errorf("load profile: %w", err)
	}

	if err := r.attachPhotos(ctx, &profile); err != nil {
		return matching.Profile{}, err
	}
	if err := r.attachBlocked(ctx, &profile); err != nil {
		return matching.Profile{}, err
	}

	return profile, nil
}

func (r *ProfileRepo) ListProfiles(ctx context.Context, userIDs []int64) ([]matching.Profile, error) {
	if r.pool == nil || len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE user_id = ANY($1)
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]matching.Profile, 0, len(userIDs))
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	for i := range profiles {
		if err := r.attachPhotos(ctx, &profiles[i]); err != nil {
			return nil, err
		}
		if err := r.attachBlocked(ctx, &profiles[i]); err != nil {
			return nil, err
		}
	}

	return profiles, nil
}

func (r *ProfileRepo) GetPreferences(ctx context.Context, userID int64) (matching.PreferenceRecord, error) {
	if userID <= 0 {
		return matching.PreferenceRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return matching.PreferenceRecord{}, ErrPreferencesNotFound
	}

	var prefs matching.PreferenceRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	min_age,
	max_age,
	distance_miles,
	COALESCE(deal_breakers, ''),
	COALESCE(pool_country, ''),
	COALESCE(high_schools, ''),
	COALESCE(has_children_preference, ''),
	COALESCE(religion_preferences, '{}')
FROM preferences
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&prefs.UserID,
		&prefs.MinAge,
		&prefs.MaxAge,
		&prefs.DistanceMiles,
		&prefs.DealBreakers,
		&prefs.PoolCountry,
		&prefs.HighSchools,
		&prefs.HasChildrenPreference,
		&prefs.ReligionPreferences,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return matching.PreferenceRecord{}, ErrPreferencesNotFound
		}
		return matching.PreferenceRecord{}, fmt.Errorf("load preferences: %w", err)
	}

	return prefs, nil
}

func scanProfile(row pgx.Row) (matching.Profile, error) {
	var p matching.Profile
	err := row.Scan(
		&p.ID,
		&p.DisplayName,
		&p.Birthdate,
		&p.Location,
		&p.CountryOfOrigin,
		&p.Nationality,
		&p.Religion,
		&p.Ethnicity,
		&p.SecondaryTribes,
		&p.Suspended,
		&p.SuspensionExpiresAt,
		&p.Hidden,
		&p.Activated,
		&p.Verified,
		&p.Online,
		&p.LastActiveAt,
		&p.UpdatedAt,
		&p.HasChildren,
		&p.WantsChildren,
		&p.Smoking,
		&p.Drinking,
		&p.Bio,
		&p.EducationLevel,
		&p.HighSchool,
		&p.Profession,
		&p.BodyType,
		&p.RelationshipGoal,
	)
	return p, err
}

func (r *ProfileRepo) attachPhotos(ctx context.Context, profile *matching.Profile) error {
	rows, err := r.pool.Query(ctx, `
SELECT COALESCE(url, ''), is_primary
FROM photos
WHERE user_id = $1
ORDER BY position
`, profile.ID)
	if err != nil {
		return fmt.Errorf("load photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photo matching.Photo
		if err := rows.Scan(&photo.URL, &photo.Primary); err != nil {
			return fmt.Errorf("scan photo: %w", err)
		}
		profile.Photos = append(profile.Photos, photo)
	}
	return rows.Err()
}

func (r *ProfileRepo) attachBlocked(ctx context.Context, profile *matching.Profile) error {
	rows, err := r.pool.Query(ctx, `
SELECT blocked_id
FROM blocks
WHERE user_id = $1
`, profile.ID)
	if err != nil {
		return fmt.Errorf("load blocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan block: %w", err)
		}
		profile.BlockedUserIDs = append(profile.BlockedUserIDs, id)
	}
	return rows.Err()
}

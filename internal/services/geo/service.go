package geo

import (
	"context"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/shashanksGitHub/charlie-sub010/internal/config"
	"github.com/shashanksGitHub/charlie-sub010/internal/domain/enums"
	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
)

const (
	liveConfidence          = 0.95
	fuzzyConfidenceFactor   = 0.8
	countryConfidenceFactor = 0.7
)

type GeocodeResult struct {
	Lat     float64
	Lon     float64
	City    string
	Country string
}

type TimezoneResult struct {
	ID             string
	UTCOffsetHours float64
}

// Geocoder is the outbound lookup pair: forward address resolution and
// timezone by coordinate. Both calls may fail; the resolver treats any
// failure as a cache miss and falls through to the curated table.
type Geocoder interface {
	Forward(ctx context.Context, query string) (GeocodeResult, error)
	TimezoneAt(ctx context.Context, lat, lon float64) (TimezoneResult, error)
}

// CacheStore persists resolved locations across processes. A nil
// record with nil error is a miss.
type CacheStore interface {
	Get(ctx context.Context, key string) (*matching.LocationRecord, error)
	Set(ctx context.Context, key string, record matching.LocationRecord) error
}

type curatedEntry struct {
	key     string
	country string
	record  matching.LocationRecord
}

// Service resolves free-text locations and answers distance and
// timezone questions about them. Successful resolutions are memoized
// per process under the normalized key with no eviction; the location
// vocabulary is bounded in practice, though this is a known scaling
// risk for very large deployments.
type Service struct {
	curated  []curatedEntry
	geocoder Geocoder
	cache    CacheStore
	log      *zap.Logger

	mu   sync.Mutex
	memo map[string]matching.LocationRecord
}

func NewService(locations []config.LocationConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	curated := make([]curatedEntry, 0, len(locations))
	for _, loc := range locations {
		key := NormalizeLocation(loc.Name)
		if key == "" {
			continue
		}
		confidence := loc.Confidence
		if confidence <= 0 || confidence > 1 {
			confidence = 0.9
		}
		offset := loc.UTCOffset
		curated = append(curated, curatedEntry{
			key:     key,
			country: NormalizeLocation(loc.Country),
			record: matching.LocationRecord{
				Lat:            loc.Lat,
				Lon:            loc.Lon,
				City:           loc.City,
				Country:        loc.Country,
				Timezone:       loc.Timezone,
				UTCOffsetHours: &offset,
				Confidence:     confidence,
				Source:         enums.LocationSourceCurated,
			},
		})
	}

	return &Service{
		curated: curated,
		log:     log,
		memo:    map[string]matching.LocationRecord{},
	}
}

func (s *Service) AttachGeocoder(geocoder Geocoder) {
	s.geocoder = geocoder
}

func (s *Service) AttachCache(store CacheStore) {
	s.cache = store
}

// Resolve normalizes the text and walks the lookup ladder: process
// memo, shared cache, live geocode, curated exact, fuzzy substring
// overlap, country suffix. Returns nil when nothing matches; resolver
// failures never surface as errors.
func (s *Service) Resolve(ctx context.Context, text string) *matching.LocationRecord {
	key := NormalizeLocation(text)
	if key == "" {
		return nil
	}

	if record, ok := s.memoGet(key); ok {
		return &record
	}

	if s.cache != nil {
		record, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Debug("geo cache read failed", zap.String("key", key), zap.Error(err))
		} else if record != nil {
			s.memoSet(key, *record)
			return record
		}
	}

	record := s.lookup(ctx, key)
	if record == nil {
		return nil
	}

	s.memoSet(key, *record)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, *record); err != nil {
			s.log.Debug("geo cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return record
}

func (s *Service) lookup(ctx context.Context, key string) *matching.LocationRecord {
	if record := s.liveLookup(ctx, key); record != nil {
		return record
	}

	for _, entry := range s.curated {
		if entry.key == key {
			record := entry.record
			return &record
		}
	}

	if record := s.fuzzyLookup(key); record != nil {
		return record
	}

	return s.countrySuffixLookup(key)
}

func (s *Service) liveLookup(ctx context.Context, key string) *matching.LocationRecord {
	if s.geocoder == nil {
		return nil
	}

	result, err := s.geocoder.Forward(ctx, key)
	if err != nil {
		s.log.Debug("live geocode failed, falling back to curated table",
			zap.String("location", key), zap.Error(err))
		return nil
	}

	record := matching.LocationRecord{
		Lat:        result.Lat,
		Lon:        result.Lon,
		City:       result.City,
		Country:    result.Country,
		Confidence: liveConfidence,
		Source:     enums.LocationSourceGeocode,
	}

	tz, err := s.geocoder.TimezoneAt(ctx, result.Lat, result.Lon)
	if err != nil {
		s.log.Debug("timezone lookup failed", zap.String("location", key), zap.Error(err))
	} else {
		offset := tz.UTCOffsetHours
		record.Timezone = tz.ID
		record.UTCOffsetHours = &offset
	}

	return &record
}

// fuzzyLookup matches on substring overlap in either direction and
// keeps the longest overlapping curated key.
func (s *Service) fuzzyLookup(key string) *matching.LocationRecord {
	var best *curatedEntry
	for i := range s.curated {
		entry := &s.curated[i]
		if !strings.Contains(key, entry.key) && !strings.Contains(entry.key, key) {
			continue
		}
		if best == nil || len(entry.key) > len(best.key) {
			best = entry
		}
	}
	if best == nil {
		return nil
	}

	record := best.record
	record.Confidence = record.Confidence * fuzzyConfidenceFactor
	record.Source = enums.LocationSourceFuzzy
	return &record
}

// countrySuffixLookup matches the trailing segment of a multi-part
// location ("somewhere, ghana") against curated countries.
func (s *Service) countrySuffixLookup(key string) *matching.LocationRecord {
	parts := strings.Split(key, ",")
	if len(parts) < 2 {
		return nil
	}
	suffix := strings.TrimSpace(parts[len(parts)-1])
	if suffix == "" {
		return nil
	}

	for _, entry := range s.curated {
		if entry.country == "" || entry.country != suffix {
			continue
		}
		record := entry.record
		record.City = ""
		record.Confidence = record.Confidence * countryConfidenceFactor
		record.Source = enums.LocationSourceFuzzy
		return &record
	}
	return nil
}

func (s *Service) memoGet(key string) (matching.LocationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.memo[key]
	return record, ok
}

func (s *Service) memoSet(key string, record matching.LocationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memo[key] = record
}

// NormalizeLocation lowercases, strips punctuation except commas (they
// delimit the segments the suffix match needs) and collapses runs of
// whitespace.
func NormalizeLocation(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',':
			b.WriteString(" , ")
		default:
			b.WriteRune(' ')
		}
	}

	normalized := strings.Join(strings.Fields(b.String()), " ")
	normalized = strings.ReplaceAll(normalized, " , ", ", ")
	return strings.Trim(normalized, ", ")
}

// DistanceKM is the Haversine great-circle distance rounded to two
// decimals. Symmetric in its arguments.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0

	toRad := func(v float64) float64 { return v * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKM*c*100) / 100
}

// Service method so consumers can depend on one interface for both
// resolution and distance math.
func (s *Service) DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceKM(lat1, lon1, lat2, lon2)
}

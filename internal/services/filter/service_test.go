package filter

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	"github.com/shashanksGitHub/charlie-sub010/internal/services/geo"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

type resolverStub struct {
	records map[string]*matching.LocationRecord
}

func (r *resolverStub) Resolve(_ context.Context, text string) *matching.LocationRecord {
	return r.records[text]
}

func (r *resolverStub) DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	return geo.DistanceKM(lat1, lon1, lat2, lon2)
}

func newTestService(res Resolver) *Service {
	s := NewService(res, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func birthdateForAge(age int) *time.Time {
	d := time.Date(testNow.Year()-age, testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC)
	d = d.AddDate(0, 0, -1)
	return &d
}

func activeProfile(id int64) matching.Profile {
	return matching.Profile{
		ID:        id,
		Birthdate: birthdateForAge(30),
		Activated: true,
	}
}

func ids(profiles []matching.Profile) []int64 {
	out := make([]int64, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []matching.Profile, want ...int64) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("kept %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("kept %v, want %v", gotIDs, want)
		}
	}
}

func TestAccountStatusStage(t *testing.T) {
	requester := activeProfile(1)
	requester.BlockedUserIDs = []int64{5}

	expired := testNow.Add(-time.Hour)
	active := testNow.Add(time.Hour)

	suspendedExpired := activeProfile(2)
	suspendedExpired.Suspended = true
	suspendedExpired.SuspensionExpiresAt = &expired

	suspendedActive := activeProfile(3)
	suspendedActive.Suspended = true
	suspendedActive.SuspensionExpiresAt = &active

	suspendedForever := activeProfile(4)
	suspendedForever.Suspended = true

	blockedByRequester := activeProfile(5)

	blockedTheRequester := activeProfile(6)
	blockedTheRequester.BlockedUserIDs = []int64{1}

	hidden := activeProfile(7)
	hidden.Hidden = true

	unactivated := activeProfile(8)
	unactivated.Activated = false

	plain := activeProfile(9)

	svc := newTestService(nil)
	got := svc.Apply(context.Background(), Request{
		Requester: requester,
		Candidates: []matching.Profile{
			suspendedExpired, suspendedActive, suspendedForever,
			blockedByRequester, blockedTheRequester, hidden, unactivated, plain,
		},
		Config: Config{AccountStatus: true},
	})

	assertIDs(t, got, 2, 9)
}

func TestSmokingDealBreakerZeroTolerance(t *testing.T) {
	smoker := activeProfile(2)
	smoker.Smoking = "socially"
	quit := activeProfile(3)
	quit.Smoking = "no"
	unknown := activeProfile(4)

	svc := newTestService(nil)
	got := svc.Apply(context.Background(), Request{
		Requester:  activeProfile(1),
		Prefs:      matching.PreferenceRecord{DealBreakers: `["smoking"]`},
		Candidates: []matching.Profile{smoker, quit, unknown},
		Config:     Config{DealBreakers: true},
	})

	assertIDs(t, got, 3, 4)
}

func TestReligionDealBreaker(t *testing.T) {
	tests := []struct {
		name      string
		requester string
		wantList  []string
		candidate string
		kept      bool
	}{
		{"same group via requester religion", "catholic", nil, "methodist", true},
		{"different group via requester religion", "catholic", nil, "sunni", false},
		{"preference list match", "", []string{"islam"}, "sunni", true},
		{"preference list miss", "", []string{"islam"}, "baptist", false},
		{"candidate religion missing passes", "catholic", nil, "", true},
		{"requester religion missing passes", "", nil, "buddhist", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requester := activeProfile(1)
			requester.Religion = tt.requester
			candidate := activeProfile(2)
			candidate.Religion = tt.candidate

			svc := newTestService(nil)
			got := svc.Apply(context.Background(), Request{
				Requester: requester,
				Prefs: matching.PreferenceRecord{
					DealBreakers:        `["different_religion"]`,
					ReligionPreferences: tt.wantList,
				},
				Candidates: []matching.Profile{candidate},
				Config:     Config{DealBreakers: true},
			})
			if kept := len(got) == 1; kept != tt.kept {
				t.Fatalf("kept = %v, want %v", kept, tt.kept)
			}
		})
	}
}

func TestHasChildrenDealBreakerSupersedesPreference(t *testing.T) {
	parent := activeProfile(2)
	parent.HasChildren = "yes"
	childless := activeProfile(3)
	childless.HasChildren = "no"
	unknown := activeProfile(4)

	svc := newTestService(nil)
	got := svc.Apply(context.Background(), Request{
		Requester: activeProfile(1),
		Prefs: matching.PreferenceRecord{
			DealBreakers:          `["has_children"]`,
			HasChildrenPreference: "no",
		},
		Candidates: []matching.Profile{parent, childless, unknown},
		Config:     Config{DealBreakers: true, Children: true},
	})

	assertIDs(t, got, 3, 4)
}

func TestAgeBoundStage(t *testing.T) {
	agesIn := []int{20, 25, 30, 35, 40}
	candidates := make([]matching.Profile, 0, len(agesIn))
	for i, age := range agesIn {
		p := activeProfile(int64(i + 2))
		p.Birthdate = birthdateForAge(age)
		candidates = append(candidates, p)
	}
	noBirthdate := activeProfile(10)
	noBirthdate.Birthdate = nil
	candidates = append(candidates, noBirthdate)

	svc := newTestService(nil)
	got := svc.Apply(context.Background(), Request{
		Requester:  activeProfile(1),
		Prefs:      matching.PreferenceRecord{MinAge: 25, MaxAge: 35},
		Candidates: candidates,
		Config:     Config{AgeBounds: true},
	})

	assertIDs(t, got, 3, 4, 5)
}

func TestDistanceStageLongDistanceOverride(t *testing.T) {
	res := &resolverStub{records: map[string]*matching.LocationRecord{
		"Accra, Ghana":  {Lat: 5.6037, Lon: -0.1870},
		"Tema, Ghana":   {Lat: 5.6698, Lon: -0.0167},
		"Kumasi, Ghana": {Lat: 6.6885, Lon: -1.6244},
	}}

	requester := activeProfile(1)
	requester.Location = "Accra, Ghana"
	near := activeProfile(2)
	near.Location = "Tema, Ghana"
	far := activeProfile(3)
	far.Location = "Kumasi, Ghana"

	svc := newTestService(res)
	// Unlimited preference alone enforces nothing.
	got := svc.Apply(context.Background(), Request{
		Requester:  requester,
		Prefs:      matching.PreferenceRecord{DistanceMiles: matching.DistanceUnlimited},
		Candidates: []matching.Profile{near, far},
		Config:     Config{Distance: true},
	})
	assertIDs(t, got, 2, 3)

	// The long_distance tag caps an unlimited preference at 25 miles.
	got = svc.Apply(context.Background(), Request{
		Requester: requester,
		Prefs: matching.PreferenceRecord{
			DistanceMiles: matching.DistanceUnlimited,
			DealBreakers:  `["long_distance"]`,
		},
		Candidates: []matching.Profile{near, far},
		Config:     Config{Distance: true},
	})
	assertIDs(t, got, 2)
}

func TestDistanceStageFailsOpen(t *testing.T) {
	res := &resolverStub{records: map[string]*matching.LocationRecord{
		"Accra, Ghana":  {Lat: 5.6037, Lon: -0.1870},
		"Kumasi, Ghana": {Lat: 6.6885, Lon: -1.6244},
	}}

	requester := activeProfile(1)
	requester.Location = "Accra, Ghana"
	unresolved := activeProfile(2)
	unresolved.Location = "Somewhere Unknown"
	far := activeProfile(3)
	far.Location = "Kumasi, Ghana"

	svc := newTestService(res)
	got := svc.Apply(context.Background(), Request{
		Requester:  requester,
		Prefs:      matching.PreferenceRecord{DistanceMiles: 10},
		Candidates: []matching.Profile{unresolved, far},
		Config:     Config{Distance: true},
	})
	// Unresolvable candidate is kept; resolvable out-of-range one is not.
	assertIDs(t, got, 2)

	// Unresolvable requester skips the stage entirely.
	requester.Location = "Nowhere"
	got = svc.Apply(context.Background(), Request{
		Requester:  requester,
		Prefs:      matching.PreferenceRecord{DistanceMiles: 10},
		Candidates: []matching.Profile{unresolved, far},
		Config:     Config{Distance: true},
	})
	assertIDs(t, got, 2, 3)
}

func TestChildrenPreferenceStage(t *testing.T) {
	parent := activeProfile(2)
	parent.HasChildren = "yes"
	childless := activeProfile(3)
	childless.HasChildren = "no"
	unknown := activeProfile(4)

	tests := []struct {
		name string
		pref string
		want []int64
	}{
		{"no preference keeps all", "", []int64{2, 3, 4}},
		{"any keeps all", "any", []int64{2, 3, 4}},
		{"no excludes parents", "no", []int64{3, 4}},
		{"yes excludes childless", "yes", []int64{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(nil)
			got := svc.Apply(context.Background(), Request{
				Requester:  activeProfile(1),
				Prefs:      matching.PreferenceRecord{HasChildrenPreference: tt.pref},
				Candidates: []matching.Profile{parent, childless, unknown},
				Config:     Config{Children: true},
			})
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestCountryPoolStage(t *testing.T) {
	byOrigin := activeProfile(2)
	byOrigin.CountryOfOrigin = "Ghana"

	byNationality := activeProfile(3)
	byNationality.Nationality = "ghanaian"

	byLocation := activeProfile(4)
	byLocation.Location = "Osu, Accra, Ghana"

	elsewhere := activeProfile(5)
	elsewhere.CountryOfOrigin = "Nigeria"
	elsewhere.Location = "Lagos, Nigeria"

	candidates := []matching.Profile{byOrigin, byNationality, byLocation, elsewhere}

	svc := newTestService(nil)
	got := svc.Apply(context.Background(), Request{
		Requester:  activeProfile(1),
		Prefs:      matching.PreferenceRecord{PoolCountry: "Ghana"},
		Candidates: candidates,
		Config:     Config{CountryPool: true},
	})
	assertIDs(t, got, 2, 3, 4)

	got = svc.Apply(context.Background(), Request{
		Requester:  activeProfile(1),
		Prefs:      matching.PreferenceRecord{PoolCountry: "anywhere"},
		Candidates: candidates,
		Config:     Config{CountryPool: true},
	})
	assertIDs(t, got, 2, 3, 4, 5)
}

func TestHighSchoolStageMinorsOnly(t *testing.T) {
	minorSameSchool := activeProfile(2)
	minorSameSchool.Birthdate = birthdateForAge(16)
	minorSameSchool.HighSchool = "Achimota School"

	minorOtherSchool := activeProfile(3)
	minorOtherSchool.Birthdate = birthdateForAge(17)
	minorOtherSchool.HighSchool = "Wesley Girls"

	minorNoSchool := activeProfile(4)
	minorNoSchool.Birthdate = birthdateForAge(16)

	adult := activeProfile(5)
	adult.HighSchool = "Wesley Girls"

	candidates := []matching.Profile{minorSameSchool, minorOtherSchool, minorNoSchool, adult}

	minor := activeProfile(1)
	minor.Birthdate = birthdateForAge(16)

	svc := newTestService(nil)
	got := svc.Apply(context.Background(), Request{
		Requester:  minor,
		Prefs:      matching.PreferenceRecord{HighSchools: `["Achimota School"]`},
		Candidates: candidates,
		Config:     Config{HighSchool: true},
	})
	assertIDs(t, got, 2, 4, 5)

	// Adult requesters are never school-filtered.
	got = svc.Apply(context.Background(), Request{
		Requester:  activeProfile(1),
		Prefs:      matching.PreferenceRecord{HighSchools: `["Achimota School"]`},
		Candidates: candidates,
		Config:     Config{HighSchool: true},
	})
	assertIDs(t, got, 2, 3, 4, 5)

	// The "any school" sentinel disables the stage for minors too.
	got = svc.Apply(context.Background(), Request{
		Requester:  minor,
		Prefs:      matching.PreferenceRecord{HighSchools: "any"},
		Candidates: candidates,
		Config:     Config{HighSchool: true},
	})
	assertIDs(t, got, 2, 3, 4, 5)
}

func TestPipelineIdempotent(t *testing.T) {
	candidates := []matching.Profile{activeProfile(2), activeProfile(3)}
	smoker := activeProfile(4)
	smoker.Smoking = "yes"
	candidates = append(candidates, smoker)

	req := Request{
		Requester:  activeProfile(1),
		Prefs:      matching.PreferenceRecord{DealBreakers: `["smoking"]`, MinAge: 25, MaxAge: 35},
		Config:     DefaultConfig(),
		Candidates: candidates,
	}

	svc := newTestService(nil)
	first := svc.Apply(context.Background(), req)

	req.Candidates = first
	second := svc.Apply(context.Background(), req)

	assertIDs(t, second, ids(first)...)
}

func TestEmptyResultIsNormal(t *testing.T) {
	smoker := activeProfile(2)
	smoker.Smoking = "yes"

	svc := newTestService(nil)
	got := svc.Apply(context.Background(), Request{
		Requester:  activeProfile(1),
		Prefs:      matching.PreferenceRecord{DealBreakers: `["smoking"]`},
		Candidates: []matching.Profile{smoker},
		Config:     DefaultConfig(),
	})
	if len(got) != 0 {
		t.Fatalf("expected empty result, kept %v", ids(got))
	}
}

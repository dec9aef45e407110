package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/enums"
	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
)

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGeoCacheRoundTrip(t *testing.T) {
	repo := NewGeoCacheRepo(newTestClient(t))
	ctx := context.Background()

	offset := 0.0
	record := matching.LocationRecord{
		Lat:            5.6037,
		Lon:            -0.1870,
		City:           "Accra",
		Country:        "Ghana",
		Timezone:       "Africa/Accra",
		UTCOffsetHours: &offset,
		Confidence:     0.9,
		Source:         enums.LocationSourceCurated,
	}

	if err := repo.Set(ctx, "accra, ghana", record); err != nil {
		t.Fatalf("set geo cache: %v", err)
	}

	got, err := repo.Get(ctx, "accra, ghana")
	if err != nil {
		t.Fatalf("get geo cache: %v", err)
	}
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if got.City != "Accra" || got.Confidence != 0.9 || got.Source != enums.LocationSourceCurated {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.UTCOffsetHours == nil || *got.UTCOffsetHours != 0 {
		t.Fatalf("unexpected offset: %v", got.UTCOffsetHours)
	}
}

func TestGeoCacheMiss(t *testing.T) {
	repo := NewGeoCacheRepo(newTestClient(t))

	got, err := repo.Get(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("get geo cache: %v", err)
	}
	if got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}

func TestGeoCacheValidation(t *testing.T) {
	repo := NewGeoCacheRepo(newTestClient(t))

	if _, err := repo.Get(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty key")
	}
	if err := repo.Set(context.Background(), "", matching.LocationRecord{}); err == nil {
		t.Fatal("expected error for empty key")
	}

	nilRepo := NewGeoCacheRepo(nil)
	if _, err := nilRepo.Get(context.Background(), "accra"); err == nil {
		t.Fatal("expected error for nil client")
	}
}

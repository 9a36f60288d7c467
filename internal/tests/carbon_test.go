package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"flock/internal/domain"
)

// TestCarbonStats_CountsRidersAndDrivers verifies both sides of a shared ride are credited.
func TestCarbonStats_CountsRidersAndDrivers(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")

	done := env.AddTrip(driver.ID, time.Now().Add(-time.Hour), 1)
	env.AddRequest(done.ID, rider.ID, domain.RideRequestStatusAccepted)

	// A departed trip still counts after it was cancelled.
	cancelled := env.AddTrip(driver.ID, time.Now().Add(-time.Hour), 1)
	env.Trips.GetTrip(cancelled.ID).Status = domain.TripStatusCancelled
	env.AddRequest(cancelled.ID, rider.ID, domain.RideRequestStatusAccepted)

	// Not counted: pending rider, upcoming trip.
	pending := env.AddTrip(driver.ID, time.Now().Add(-time.Hour), 1)
	env.AddRequest(pending.ID, rider.ID, domain.RideRequestStatusPending)
	upcoming := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 1)
	env.AddRequest(upcoming.ID, rider.ID, domain.RideRequestStatusAccepted)

	km := env.Cities.DistanceKm("austin_tx", "dallas_tx")
	if km <= 0 {
		t.Fatalf("Expected a positive distance, got %d", km)
	}

	for _, p := range []domain.Principal{driver, rider} {
		stats, err := env.CarbonService.StatsForUser(ctx, p.ID)
		if err != nil {
			t.Fatalf("StatsForUser(%s) failed: %v", p.Name, err)
		}
		if stats.CompletedRides != 2 || stats.TotalDistanceKm != 2*km || stats.TotalCO2SavedGrams != 2*km*domain.CarbonGramsPerKm {
			t.Errorf("%s: unexpected stats %+v", p.Name, stats)
		}
	}

	stranger := env.AddUser("sam")
	stats, err := env.CarbonService.StatsForUser(ctx, stranger.ID)
	if err != nil {
		t.Fatalf("StatsForUser failed: %v", err)
	}
	if *stats != (domain.CarbonStats{}) {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

// TestCarbonStats_ServedFromCache verifies a second read does not hit the repository.
func TestCarbonStats_ServedFromCache(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")

	if _, err := env.CarbonService.StatsForUser(ctx, driver.ID); err != nil {
		t.Fatalf("StatsForUser failed: %v", err)
	}
	queries := atomic.LoadInt32(&env.Carbon.QueryCount)
	if queries != 2 {
		t.Fatalf("Expected 2 queries on a miss, got %d", queries)
	}

	if _, err := env.CarbonService.StatsForUser(ctx, driver.ID); err != nil {
		t.Fatalf("StatsForUser failed: %v", err)
	}
	if got := atomic.LoadInt32(&env.Carbon.QueryCount); got != queries {
		t.Errorf("Expected cached read, queries went from %d to %d", queries, got)
	}
}

// TestCarbonBatch_TwoQueriesForAllMisses verifies a page of drivers costs two queries however long it is.
func TestCarbonBatch_TwoQueriesForAllMisses(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	ids := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		ids = append(ids, env.AddDriver("driver").ID)
	}

	got, err := env.CarbonService.SavedGramsForUsers(ctx, ids)
	if err != nil {
		t.Fatalf("SavedGramsForUsers failed: %v", err)
	}
	if len(got) != len(ids) {
		t.Errorf("Expected %d results, got %d", len(ids), len(got))
	}
	if q := atomic.LoadInt32(&env.Carbon.QueryCount); q != 2 {
		t.Errorf("Expected 2 queries, got %d", q)
	}
	for _, id := range ids {
		if !env.Cache.Has(id) {
			t.Errorf("Expected %s to be cached", id)
		}
	}

	if _, err := env.CarbonService.SavedGramsForUsers(ctx, ids); err != nil {
		t.Fatalf("SavedGramsForUsers failed: %v", err)
	}
	if q := atomic.LoadInt32(&env.Carbon.QueryCount); q != 2 {
		t.Errorf("Expected the second batch to be fully cached, got %d queries", q)
	}
}

// TestCarbonCache_InvalidatedOnAccept verifies seat changes drop stale statistics.
func TestCarbonCache_InvalidatedOnAccept(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")
	trip := env.AddTrip(driver.ID, time.Now().Add(-time.Hour), 1)
	req := env.AddRequest(trip.ID, rider.ID, domain.RideRequestStatusPending)

	stats, err := env.CarbonService.StatsForUser(ctx, rider.ID)
	if err != nil {
		t.Fatalf("StatsForUser failed: %v", err)
	}
	if stats.CompletedRides != 0 {
		t.Fatalf("Expected no rides yet, got %d", stats.CompletedRides)
	}

	if _, err := env.RideRequestService.AcceptRequest(ctx, driver, req.ID); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}
	if env.Cache.Has(rider.ID) {
		t.Fatal("Expected rider stats to be invalidated")
	}

	stats, err = env.CarbonService.StatsForUser(ctx, rider.ID)
	if err != nil {
		t.Fatalf("StatsForUser failed: %v", err)
	}
	if stats.CompletedRides != 1 {
		t.Errorf("Expected 1 ride after accept, got %d", stats.CompletedRides)
	}
}

// TestCarbonStats_CacheFailureFallsBack verifies a broken cache does not fail the read.
func TestCarbonStats_CacheFailureFallsBack(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	env.Cache.GetError = errors.New("redis down")

	driver := env.AddDriver("dana")
	if _, err := env.CarbonService.StatsForUser(context.Background(), driver.ID); err != nil {
		t.Fatalf("Expected fallback to the repository, got %v", err)
	}
	if _, err := env.CarbonService.SavedGramsForUsers(context.Background(), []string{driver.ID}); err != nil {
		t.Fatalf("Expected batch fallback to the repository, got %v", err)
	}
}

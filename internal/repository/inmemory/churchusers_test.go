package inmemory

import (
	"testing"
	"time"

	churchuserdomain "church-admin-go/internal/domain/churchuser"
)

func TestChurchUserCacheExpires(t *testing.T) {
	cache := NewInMemoryChurchUserCache()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	churchID := "c-1"
	cache.SetByAuthID("auth-1", &churchuserdomain.ChurchUser{ID: "u-1", Role: churchuserdomain.RolePastor, ChurchID: &churchID}, time.Minute)

	got, ok := cache.GetByAuthID("auth-1")
	if !ok {
		t.Fatalf("expected cached user")
	}
	*got.ChurchID = "mutated"

	again, ok := cache.GetByAuthID("auth-1")
	if !ok || *again.ChurchID != "c-1" {
		t.Fatalf("expected cached copy to be isolated, got %+v", again)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.GetByAuthID("auth-1"); ok {
		t.Fatalf("expected entry to expire")
	}
	if len(cache.items) != 0 {
		t.Fatalf("expected expired entry to be evicted")
	}
}

func TestChurchUserCacheDeleteAndClear(t *testing.T) {
	cache := NewInMemoryChurchUserCache()
	cache.SetByAuthID("auth-1", &churchuserdomain.ChurchUser{ID: "u-1"}, time.Minute)
	cache.SetByAuthID("auth-2", &churchuserdomain.ChurchUser{ID: "u-2"}, time.Minute)

	cache.DeleteByAuthID("auth-1")
	if _, ok := cache.GetByAuthID("auth-1"); ok {
		t.Fatalf("expected auth-1 to be deleted")
	}

	cache.SetByAuthID("auth-2", nil, time.Minute)
	if _, ok := cache.GetByAuthID("auth-2"); ok {
		t.Fatalf("expected nil user to remove entry")
	}

	cache.SetByAuthID("auth-3", &churchuserdomain.ChurchUser{ID: "u-3"}, time.Minute)
	cache.Clear()
	if _, ok := cache.GetByAuthID("auth-3"); ok {
		t.Fatalf("expected cache to be cleared")
	}
}

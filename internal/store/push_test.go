package store

import (
	"testing"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/database"
)

func setupPushTestDB(t *testing.T) *PushStore {
	t.Helper()
	db, err := database.Open(database.MemoryPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPushStore(db)
}

func TestPushSubscriptionCRUD(t *testing.T) {
	ps := setupPushTestDB(t)

	sub, err := ps.CreateSubscription("https://push.example.com/1", "p256", "auth", "Phone")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sub == nil || sub.ID == 0 {
		t.Fatalf("expected subscription with id, got %+v", sub)
	}
	if sub.DeviceName != "Phone" {
		t.Errorf("device_name = %q, want %q", sub.DeviceName, "Phone")
	}

	got, err := ps.GetByID(sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Endpoint != sub.Endpoint {
		t.Errorf("get = %+v", got)
	}

	if err := ps.DeleteSubscription(sub.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = ps.GetByID(sub.ID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestPushSubscriptionUpsert(t *testing.T) {
	ps := setupPushTestDB(t)

	first, _ := ps.CreateSubscription("https://push.example.com/1", "k1", "a1", "Old")
	second, err := ps.CreateSubscription("https://push.example.com/1", "k2", "a2", "New")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert id = %d, want %d", second.ID, first.ID)
	}
	if second.P256dhKey != "k2" || second.DeviceName != "New" {
		t.Errorf("upsert did not update keys: %+v", second)
	}

	subs, err := ps.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("expected 1 subscription, got %d", len(subs))
	}
}

func TestPushDeleteByEndpointAndAll(t *testing.T) {
	ps := setupPushTestDB(t)

	ps.CreateSubscription("https://push.example.com/1", "k", "a", "")
	ps.CreateSubscription("https://push.example.com/2", "k", "a", "")
	ps.CreateSubscription("https://push.example.com/3", "k", "a", "")

	if err := ps.DeleteByEndpoint("https://push.example.com/1"); err != nil {
		t.Fatalf("delete by endpoint: %v", err)
	}
	subs, _ := ps.List()
	if len(subs) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(subs))
	}

	n, err := ps.DeleteAll()
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	subs, _ = ps.List()
	if len(subs) != 0 {
		t.Errorf("expected no subscriptions, got %d", len(subs))
	}
}

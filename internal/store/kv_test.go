package store

import (
	"testing"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/database"
)

func setupKVTestDB(t *testing.T) *KVStore {
	t.Helper()
	db, err := database.Open(database.MemoryPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewKVStore(db)
}

func TestKVGetMissing(t *testing.T) {
	kv := setupKVTestDB(t)

	val, ok, err := kv.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || val != "" {
		t.Errorf("get missing = (%q, %v), want (\"\", false)", val, ok)
	}
}

func TestKVSetGetDelete(t *testing.T) {
	kv := setupKVTestDB(t)

	if err := kv.Set("k", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("k", "two"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	val, ok, err := kv.Get("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || val != "two" {
		t.Errorf("get = (%q, %v), want (%q, true)", val, ok, "two")
	}

	if err := kv.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get("k"); ok {
		t.Error("expected key to be gone after delete")
	}
}

func TestKVClear(t *testing.T) {
	kv := setupKVTestDB(t)

	kv.Set("a", "1")
	kv.Set("b", "2")

	if err := kv.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for _, key := range []string{"a", "b"} {
		if _, ok, err := kv.Get(key); err != nil || ok {
			t.Errorf("get %q after clear = (%v, %v), want (false, nil)", key, ok, err)
		}
	}
}

func TestKVSubscribe(t *testing.T) {
	kv := setupKVTestDB(t)

	var got []string
	cancel := kv.Subscribe(func(key string) {
		// The write must already be visible to subscribers.
		if key != "" {
			if _, ok, _ := kv.Get(key); !ok && key != "gone" {
				t.Errorf("key %q not readable inside notification", key)
			}
		}
		got = append(got, key)
	})

	kv.Set("a", "1")
	kv.Set("gone", "x")
	kv.Delete("gone")
	kv.Clear()

	want := []string{"a", "gone", "gone", ""}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, got[i], want[i])
		}
	}

	cancel()
	cancel()
	kv.Set("b", "2")
	if len(got) != len(want) {
		t.Errorf("received notification after cancel: %v", got)
	}
}

package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// ChangeFunc is called after a key has been written. An empty key means
// every key changed.
type ChangeFunc func(key string)

// UpdateFunc maps the current value of a key to its replacement. Returning
// write=false leaves the key untouched.
type UpdateFunc func(value string, ok bool) (next string, write bool, err error)

// KeyValue is string storage with a change broadcast. Writers never have
// to notify readers themselves: every successful write is announced to
// all subscribers once it is durable.
type KeyValue interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Update(key string, fn UpdateFunc) error
	Delete(key string) error
	Clear() error
	Subscribe(fn ChangeFunc) (cancel func())
}

// KVStore is the SQLite implementation of KeyValue. Writes are serialized,
// so an Update never interleaves with another write or a Clear.
type KVStore struct {
	db *sql.DB

	// wmu orders all writes; readers outside Update do not take it.
	wmu sync.Mutex

	mu     sync.RWMutex
	nextID int
	subs   map[int]ChangeFunc
}

// NewKVStore returns a KVStore on the migrated database db.
func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db, subs: make(map[int]ChangeFunc)}
}

// Get returns the value under key and whether it exists.
func (s *KVStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *KVStore) Set(key, value string) error {
	s.wmu.Lock()
	err := s.set(key, value)
	s.wmu.Unlock()
	if err != nil {
		return err
	}
	s.notify(key)
	return nil
}

// Update reads key, passes the value to fn and writes fn's result, with no
// other write in between. Subscribers are notified after the lock is
// released.
func (s *KVStore) Update(key string, fn UpdateFunc) error {
	written, err := s.update(key, fn)
	if err != nil || !written {
		return err
	}
	s.notify(key)
	return nil
}

func (s *KVStore) update(key string, fn UpdateFunc) (bool, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	value, ok, err := s.Get(key)
	if err != nil {
		return false, err
	}
	next, write, err := fn(value, ok)
	if err != nil || !write {
		return false, err
	}
	if err := s.set(key, next); err != nil {
		return false, err
	}
	return true, nil
}

func (s *KVStore) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(key string) error {
	s.wmu.Lock()
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	s.wmu.Unlock()
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	s.notify(key)
	return nil
}

// Clear removes every key.
func (s *KVStore) Clear() error {
	s.wmu.Lock()
	_, err := s.db.Exec(`DELETE FROM kv`)
	s.wmu.Unlock()
	if err != nil {
		return fmt.Errorf("clear kv: %w", err)
	}
	s.notify("")
	return nil
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. Callbacks run synchronously on the writer's goroutine.
func (s *KVStore) Subscribe(fn ChangeFunc) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *KVStore) notify(key string) {
	s.mu.RLock()
	fns := make([]ChangeFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(key)
	}
}

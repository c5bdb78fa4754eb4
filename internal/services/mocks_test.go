package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// memoryStore is a SaveStore backed by a map. Hooks let tests inject failures.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]*savemigrate.SaveRecord
	nextID  int64
	calls   []string

	schemaErr   error
	upsertErrs  map[string]error
	afterUpsert func(username string)
	closed      bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records:    make(map[string]*savemigrate.SaveRecord),
		upsertErrs: make(map[string]error),
	}
}

func (m *memoryStore) EnsureSchema(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "EnsureSchema")
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.schemaErr
}

func (m *memoryStore) Upsert(_ context.Context, username string, data []byte, updatedAt time.Time) error {
	m.mu.Lock()
	m.calls = append(m.calls, "Upsert "+username)
	if err, ok := m.upsertErrs[username]; ok {
		m.mu.Unlock()
		return err
	}
	payload := append([]byte{}, data...)
	if rec, ok := m.records[username]; ok {
		rec.SaveData = payload
		rec.LastUpdated = updatedAt
	} else {
		m.nextID++
		m.records[username] = &savemigrate.SaveRecord{
			ID:          m.nextID,
			Username:    username,
			SaveData:    payload,
			LastUpdated: updatedAt,
		}
	}
	hook := m.afterUpsert
	m.mu.Unlock()

	if hook != nil {
		hook(username)
	}
	return nil
}

func (m *memoryStore) Get(_ context.Context, username string) (*savemigrate.SaveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[username]
	if !ok {
		return nil, savemigrate.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memoryStore) List(_ context.Context) ([]savemigrate.RecordInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []savemigrate.RecordInfo
	for _, rec := range m.records {
		out = append(out, savemigrate.RecordInfo{
			ID:          rec.ID,
			Username:    rec.Username,
			Size:        int64(len(rec.SaveData)),
			LastUpdated: rec.LastUpdated,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *memoryStore) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(step)
		return t
	}
}

// openerFor returns a StoreOpener that always yields store.
func openerFor(store savemigrate.SaveStore, calls *int) savemigrate.StoreOpener {
	return func(_ context.Context, _ *savemigrate.ConnectionConfig, _ string) (savemigrate.SaveStore, error) {
		if calls != nil {
			*calls++
		}
		return store, nil
	}
}

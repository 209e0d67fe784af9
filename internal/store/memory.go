package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and dry local runs.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	now         func() time.Time

	commits int
	writes  int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]map[string]interface{}),
		now:         time.Now,
	}
}

// SetClock replaces the clock used to resolve ServerTimestamp.
func (m *Memory) SetClock(now func() time.Time) {
	m.now = now
}

// Commits is the number of batches committed so far.
func (m *Memory) Commits() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.commits
}

// Writes is the number of create and update operations applied so far.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Put stores a document directly, bypassing batches. Intended for seeding.
func (m *Memory) Put(collection, id string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coll(collection)[id] = resolveFields(fields, m.now())
}

func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: copyFields(data)}, nil
}

func (m *Memory) List(_ context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]Document, 0, len(m.collections[collection]))
	for id, data := range m.collections[collection] {
		docs = append(docs, Document{ID: id, Data: copyFields(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *Memory) DeleteAll(_ context.Context, collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.collections[collection])
	delete(m.collections, collection)
	return n, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func (m *Memory) NewBatch() Batch {
	return &memoryBatch{store: m}
}

func (m *Memory) coll(name string) map[string]map[string]interface{} {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]map[string]interface{})
		m.collections[name] = c
	}
	return c
}

type op struct {
	update     bool
	collection string
	id         string
	fields     map[string]interface{}
}

type memoryBatch struct {
	store *Memory
	ops   []op
}

func (b *memoryBatch) Create(collection, id string, fields map[string]interface{}) {
	b.ops = append(b.ops, op{collection: collection, id: id, fields: fields})
}

func (b *memoryBatch) Update(collection, id string, fields map[string]interface{}) {
	b.ops = append(b.ops, op{update: true, collection: collection, id: id, fields: fields})
}

func (b *memoryBatch) Len() int { return len(b.ops) }

// Commit applies every operation or none. Updating a missing document fails
// the whole batch, as it does in Firestore.
func (b *memoryBatch) Commit(_ context.Context) error {
	m := b.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range b.ops {
		if o.update {
			if _, ok := m.collections[o.collection][o.id]; !ok {
				return fmt.Errorf("update %s/%s: %w", o.collection, o.id, ErrNotFound)
			}
		}
	}

	now := m.now()
	for _, o := range b.ops {
		fields := resolveFields(o.fields, now)
		c := m.coll(o.collection)
		if !o.update {
			c[o.id] = fields
			continue
		}
		existing := c[o.id]
		for k, v := range fields {
			existing[k] = v
		}
	}
	m.commits++
	m.writes += len(b.ops)
	return nil
}

func copyFields(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

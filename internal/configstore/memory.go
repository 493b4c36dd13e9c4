package configstore

import (
	"sort"
	"sync"
)

// recordKey addresses one record.
type recordKey struct {
	section string
	key     string
}

// table is the in-memory record set shared by the Memory and SQLite stores.
// A scalar is a one-element slice; a removed key is tracked as dirty with a
// nil value so the SQLite backend can delete it on flush.
type table struct {
	mu      sync.RWMutex
	records map[recordKey][]string
	dirty   map[recordKey]struct{}
}

func newTable() *table {
	return &table{
		records: make(map[recordKey][]string),
		dirty:   make(map[recordKey]struct{}),
	}
}

func (t *table) get(section, key string) ([]string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	values, ok := t.records[recordKey{section, key}]
	if !ok {
		return nil, false
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, true
}

func (t *table) set(section, key string, values []string) {
	if len(values) == 0 {
		t.remove(section, key)
		return
	}

	cpy := make([]string, len(values))
	copy(cpy, values)

	t.mu.Lock()
	k := recordKey{section, key}
	t.records[k] = cpy
	t.dirty[k] = struct{}{}
	t.mu.Unlock()
}

func (t *table) remove(section, key string) {
	t.mu.Lock()
	k := recordKey{section, key}
	if _, ok := t.records[k]; ok {
		delete(t.records, k)
		t.dirty[k] = struct{}{}
	}
	t.mu.Unlock()
}

// takeDirty returns the pending changes and clears the dirty set.
// A nil value means the key was removed.
func (t *table) takeDirty() map[recordKey][]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	changes := make(map[recordKey][]string, len(t.dirty))
	for k := range t.dirty {
		changes[k] = t.records[k]
	}
	t.dirty = make(map[recordKey]struct{})
	return changes
}

// restoreDirty marks keys dirty again after a failed flush.
func (t *table) restoreDirty(keys map[recordKey][]string) {
	t.mu.Lock()
	for k := range keys {
		t.dirty[k] = struct{}{}
	}
	t.mu.Unlock()
}

func (t *table) snapshot() map[string]map[string][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]map[string][]string)
	for k, v := range t.records {
		sec, ok := out[k.section]
		if !ok {
			sec = make(map[string][]string)
			out[k.section] = sec
		}
		cpy := make([]string, len(v))
		copy(cpy, v)
		sec[k.key] = cpy
	}
	return out
}

// Memory is a Store that lives only in process memory.
// Flush counts calls but writes nothing; it is used in tests and for
// throwaway tooling runs.
type Memory struct {
	t       *table
	flushMu sync.Mutex
	flushes int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{t: newTable()}
}

// GetString returns the first value stored under the key.
func (m *Memory) GetString(section, key string) (string, bool) {
	return firstValue(m.t.get(section, key))
}

// GetBool parses the stored value as a boolean.
func (m *Memory) GetBool(section, key string) (bool, bool) {
	s, ok := m.GetString(section, key)
	if !ok {
		return false, false
	}
	return parseBool(s)
}

// GetArray returns every value stored under the key.
func (m *Memory) GetArray(section, key string) ([]string, bool) {
	return m.t.get(section, key)
}

// SetString stores a single value.
func (m *Memory) SetString(section, key, value string) {
	m.t.set(section, key, []string{value})
}

// SetBool stores a boolean.
func (m *Memory) SetBool(section, key string, value bool) {
	m.t.set(section, key, []string{formatBool(value)})
}

// SetArray stores a list of values, replacing any previous list.
// An empty list removes the key.
func (m *Memory) SetArray(section, key string, values []string) {
	m.t.set(section, key, values)
}

// Remove deletes a key.
func (m *Memory) Remove(section, key string) {
	m.t.remove(section, key)
}

// Flush discards the dirty set.
func (m *Memory) Flush() error {
	m.t.takeDirty()

	m.flushMu.Lock()
	m.flushes++
	m.flushMu.Unlock()
	return nil
}

// Flushes returns how many times Flush has been called.
func (m *Memory) Flushes() int {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()
	return m.flushes
}

// Records returns a copy of every record, keyed by section then key.
func (m *Memory) Records() map[string]map[string][]string {
	return m.t.snapshot()
}

// Keys returns the sorted key names of a section.
func (m *Memory) Keys(section string) []string {
	var keys []string
	for k := range m.t.snapshot()[section] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstValue(values []string, ok bool) (string, bool) {
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

package credstore

import "sync"

// MemoryStore keeps records in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]string
	init    bool

	// Unavailable simulates storage that cannot be opened: Load reports absent and Save
	// fails with ErrUnavailable.
	Unavailable bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]string)}
}

func (m *MemoryStore) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Unavailable {
		return ErrUnavailable
	}
	m.init = true
	return nil
}

func (m *MemoryStore) IsInit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.init
}

func (m *MemoryStore) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Unavailable {
		return ErrUnavailable
	}
	m.records[key] = value
	return nil
}

func (m *MemoryStore) Load(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Unavailable {
		return "", false
	}
	value, ok := m.records[key]
	return value, ok
}

func (m *MemoryStore) FactoryReset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Unavailable {
		return ErrUnavailable
	}
	m.records = make(map[string]string)
	return nil
}

func (m *MemoryStore) Location() string {
	return "memory://"
}

// Snapshot returns a copy of all records.
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.records))
	for k, v := range m.records {
		out[k] = v
	}
	return out
}

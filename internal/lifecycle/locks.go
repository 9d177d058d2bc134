package lifecycle

import "sync"

// lockTable hands out one mutex per lot id so unrelated lots mutate in
// parallel while a single lot sees at most one in-flight mutation.
// Entries are reference-counted and dropped when the last holder releases,
// keeping the table bounded by the number of in-flight mutations.
type lockTable struct {
	mu      sync.Mutex
	entries map[int64]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[int64]*lockEntry)}
}

func (t *lockTable) acquire(id int64) {
	t.mu.Lock()
	entry, ok := t.entries[id]
	if !ok {
		entry = &lockEntry{}
		t.entries[id] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.Lock()
}

func (t *lockTable) release(id int64) {
	t.mu.Lock()
	entry := t.entries[id]
	entry.refs--
	if entry.refs == 0 {
		delete(t.entries, id)
	}
	t.mu.Unlock()

	entry.Unlock()
}

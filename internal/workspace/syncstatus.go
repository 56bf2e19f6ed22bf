package workspace

import "sort"

// SyncState is the persistence state of one note
type SyncState int

const (
	Synced SyncState = iota
	Pending
	Failed
)

func (s SyncState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Failed:
		return "sync failed"
	default:
		return "synced"
	}
}

// SyncStatus is the persistence state of a note plus the last error.
type SyncStatus struct {
	State SyncState
	Err   error
}

// MarkPending records that a remote write for id is in flight.
func (s *Store) MarkPending(id string) {
	s.setSync(id, SyncStatus{State: Pending})
}

// MarkSynced records a successful remote write.
func (s *Store) MarkSynced(id string) {
	s.mu.Lock()
	delete(s.sync, id)
	s.mu.Unlock()
}

// MarkFailed records a failed remote write. Local state is kept as is.
func (s *Store) MarkFailed(id string, err error) {
	s.setSync(id, SyncStatus{State: Failed, Err: err})
}

func (s *Store) setSync(id string, st SyncStatus) {
	s.mu.Lock()
	if s.indexOf(id) >= 0 || st.State == Failed {
		s.sync[id] = st
	}
	s.mu.Unlock()
}

// SyncStatus returns the persistence state of id. Unknown ids are synced.
func (s *Store) SyncStatus(id string) SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sync[id]
}

// Unsynced returns the ids of notes that are pending or failed, sorted.
func (s *Store) Unsynced() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sync))
	for id, st := range s.sync {
		if st.State != Synced {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

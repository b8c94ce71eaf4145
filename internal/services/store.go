package services

import "sync"

// sessionStore is the in-memory registry of live form sessions. Form state
// is transient by design: it never outlives the process, so there is no
// persistence behind it.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*FormSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*FormSession),
	}
}

func (st *sessionStore) Put(s *FormSession) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID()] = s
}

func (st *sessionStore) Get(id string) (*FormSession, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *sessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// All returns the live sessions at call time.
func (st *sessionStore) All() []*FormSession {
	st.mu.RLock()
	defer st.mu.RUnlock()
	all := make([]*FormSession, 0, len(st.sessions))
	for _, s := range st.sessions {
		all = append(all, s)
	}
	return all
}

func (st *sessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

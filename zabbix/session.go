package zabbix

import "sync"

// session holds the token issued by user.login.
//
// The slot is read by every authenticated call and written by Login, Logout
// and SetToken; a reader sees either the old or the new token, never a torn
// value.
type session struct {
	mu    sync.RWMutex
	token string
}

func (s *session) get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *session) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// clearIf empties the slot only if it still holds token, so a logout does
// not discard a token issued by a concurrent login.
func (s *session) clearIf(token string) {
	s.mu.Lock()
	if s.token == token {
		s.token = ""
	}
	s.mu.Unlock()
}

// credential returns the token to attach to a call of method. It returns ""
// for methods that never carry a token and ErrNotAuthenticated for methods
// that need one when no session exists.
func (s *session) credential(method string) (string, error) {
	if !requiresAuth(method) {
		return "", nil
	}
	token := s.get()
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

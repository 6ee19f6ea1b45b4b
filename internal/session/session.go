// Package session holds the page-load flags that live for one browsing
// session. Nothing here is persisted; a new process is a new session.
package session

import (
	"strings"
	"sync"
)

type Store struct {
	mu               sync.RWMutex
	animationsPlayed bool
	dotsAnimated     bool
}

func NewStore() *Store {
	return &Store{}
}

// AnimationsPlayed reports whether the general page-load animations ran.
func (s *Store) AnimationsPlayed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.animationsPlayed
}

// DotsAnimated reports whether the dot entry animation completed.
func (s *Store) DotsAnimated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dotsAnimated
}

func (s *Store) MarkAnimationsPlayed() {
	s.mu.Lock()
	s.animationsPlayed = true
	s.mu.Unlock()
}

func (s *Store) MarkDotsAnimated() {
	s.mu.Lock()
	s.dotsAnimated = true
	s.mu.Unlock()
}

// Navigate clears the page-load flag when dest is the home page, so the
// intro plays again there. It reports whether the flag was cleared.
func (s *Store) Navigate(dest string) bool {
	if !IsHome(dest) {
		return false
	}
	s.mu.Lock()
	s.animationsPlayed = false
	s.mu.Unlock()
	return true
}

// Reset clears both flags.
func (s *Store) Reset() {
	s.mu.Lock()
	s.animationsPlayed = false
	s.dotsAnimated = false
	s.mu.Unlock()
}

func IsHome(dest string) bool {
	switch strings.ToLower(strings.TrimSpace(dest)) {
	case "", "/", "#home", "home", "index.html", "/index.html":
		return true
	}
	return false
}

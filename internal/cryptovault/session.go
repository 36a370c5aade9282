// SPDX-License-Identifier: Apache-2.0

package cryptovault

import "sync"

// Session is the in-process slot holding the unlocked MasterKey. It is the
// single point every other component (aether envelope encryption, index
// open/upsert) goes through to obtain key material, and the single point
// that can force them all back to a locked state. A Session holds no
// reference to the passphrase or KEK — those are discarded the moment
// Unlock returns.
type Session struct {
	mu sync.Mutex
	mk *MasterKey
}

// NewSession returns a locked Session holding no MasterKey.
func NewSession() *Session {
	return &Session{}
}

// Unlock installs mk as the session's held key, replacing and zeroing any
// key already held. The Session takes ownership of a clone of mk; the
// caller remains responsible for zeroing its own copy.
func (s *Session) Unlock(mk *MasterKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mk != nil {
		s.mk.Zero()
	}
	s.mk = mk.Clone()
}

// Lock zeroes and clears the held MasterKey. Safe to call when already
// locked.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mk != nil {
		s.mk.Zero()
		s.mk = nil
	}
}

// MasterKey returns a clone of the held key, or a KindLocked error if the
// session is locked. Every cryptographic operation that needs the
// MasterKey calls this immediately before use and discards the clone
// (zeroing it) as soon as derivation is complete.
func (s *Session) MasterKey() (*MasterKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mk == nil {
		return nil, sessionLocked()
	}
	return s.mk.Clone(), nil
}

// IsUnlocked reports whether the session currently holds a MasterKey.
func (s *Session) IsUnlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mk != nil
}

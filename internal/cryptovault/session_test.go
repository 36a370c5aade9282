package cryptovault

import (
	"bytes"
	"sync"
	"testing"

	"github.com/aether-drive/vault-core/internal/vaulterr"
)

func TestSession_MasterKeyBeforeUnlockIsLocked(t *testing.T) {
	s := NewSession()

	_, err := s.MasterKey()
	if err == nil {
		t.Fatalf("expected MasterKey on a fresh session to fail")
	}
	kind, ok := vaulterr.Of(err)
	if !ok || kind != vaulterr.KindLocked {
		t.Fatalf("expected KindLocked, got %v (ok=%v)", kind, ok)
	}
	if s.IsUnlocked() {
		t.Fatalf("expected fresh session to report locked")
	}
}

func TestSession_UnlockThenMasterKeyReturnsClone(t *testing.T) {
	s := NewSession()
	mk, err := generateMasterKey()
	if err != nil {
		t.Fatalf("generateMasterKey error: %v", err)
	}

	s.Unlock(mk)
	if !s.IsUnlocked() {
		t.Fatalf("expected session to report unlocked after Unlock")
	}

	got, err := s.MasterKey()
	if err != nil {
		t.Fatalf("MasterKey error: %v", err)
	}
	if !bytes.Equal(got.Bytes(), mk.Bytes()) {
		t.Fatalf("expected MasterKey to return the unlocked key's bytes")
	}

	got.Zero()
	again, err := s.MasterKey()
	if err != nil {
		t.Fatalf("MasterKey error: %v", err)
	}
	if bytes.Equal(again.Bytes(), got.Bytes()) {
		t.Fatalf("expected zeroing a returned clone not to affect the session's held key")
	}
}

func TestSession_LockClearsKey(t *testing.T) {
	s := NewSession()
	mk, err := generateMasterKey()
	if err != nil {
		t.Fatalf("generateMasterKey error: %v", err)
	}
	s.Unlock(mk)

	s.Lock()
	if s.IsUnlocked() {
		t.Fatalf("expected session to report locked after Lock")
	}
	if _, err := s.MasterKey(); err == nil {
		t.Fatalf("expected MasterKey to fail after Lock")
	}
}

func TestSession_UnlockReplacesPreviousKey(t *testing.T) {
	s := NewSession()
	mk1, _ := generateMasterKey()
	mk2, _ := generateMasterKey()

	s.Unlock(mk1)
	s.Unlock(mk2)

	got, err := s.MasterKey()
	if err != nil {
		t.Fatalf("MasterKey error: %v", err)
	}
	if !bytes.Equal(got.Bytes(), mk2.Bytes()) {
		t.Fatalf("expected the second Unlock to replace the first key")
	}
}

func TestSession_ConcurrentAccessIsSafe(t *testing.T) {
	s := NewSession()
	mk, _ := generateMasterKey()
	s.Unlock(mk)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, err := s.MasterKey(); err == nil {
				got.Zero()
			}
		}()
	}
	wg.Wait()
}

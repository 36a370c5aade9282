package objectstore

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryStore_PutGetDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, "uuid-1", []byte("envelope bytes")); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := s.Get(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !bytes.Equal(got, []byte("envelope bytes")) {
		t.Fatalf("round-tripped bytes mismatch")
	}

	if err := s.Delete(ctx, "uuid-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, "uuid-1"); err == nil {
		t.Fatalf("expected Get after Delete to fail")
	}
}

func TestMemoryStore_ListFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.Put(ctx, "a/1", []byte("x"))
	_ = s.Put(ctx, "a/2", []byte("y"))
	_ = s.Put(ctx, "b/1", []byte("z"))

	keys, err := s.List(ctx, "a/")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys under prefix a/, got %v", keys)
	}
}

func TestMemoryStore_DeleteAbsentKeyIsNotAnError(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Delete(context.Background(), "never-existed"); err != nil {
		t.Fatalf("expected deleting an absent key to succeed, got: %v", err)
	}
}

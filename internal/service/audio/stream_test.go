package audio

import (
	"context"
	"testing"
	"time"
)

func TestStreamPutNext(t *testing.T) {
	s := NewStream()
	defer s.Close()

	if !s.Put([]byte("abc")) {
		t.Fatal("Put should succeed on empty stream")
	}

	frame, ok := s.Next(context.Background())
	if !ok || string(frame) != "abc" {
		t.Fatalf("unexpected frame: %q ok=%v", frame, ok)
	}
}

func TestStreamPutDropsWhenFull(t *testing.T) {
	s := NewStream()
	defer s.Close()

	dropped := false
	for i := 0; i < 1000; i++ {
		if !s.Put([]byte{byte(i)}) {
			dropped = true
			break
		}
	}
	if !dropped {
		t.Fatal("expected bounded stream to drop once full")
	}
}

func TestStreamNextHonorsContext(t *testing.T) {
	s := NewStream()
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, ok := s.Next(ctx); ok {
		t.Fatal("expected Next to observe context cancellation")
	}
}

func TestStreamNextAfterClose(t *testing.T) {
	s := NewStream()
	s.Put([]byte("last"))
	s.Close()

	if frame, ok := s.Next(context.Background()); !ok || string(frame) != "last" {
		t.Fatalf("buffered frame must survive close: %q ok=%v", frame, ok)
	}
	if _, ok := s.Next(context.Background()); ok {
		t.Fatal("expected closed stream to report no more frames")
	}
}

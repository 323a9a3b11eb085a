package evi

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neuropy/homehub/backend/internal/analysis/emotion"
	"github.com/neuropy/homehub/backend/internal/model/journal"
)

type recordingFinalizer struct {
	calls    int
	lastSess *journal.Session
	err      error
}

func (f *recordingFinalizer) Finalize(_ context.Context, sess *journal.Session) error {
	f.calls++
	f.lastSess = sess
	return f.err
}

type captureSink struct {
	frames [][]byte
	full   bool
}

func (s *captureSink) Put(frame []byte) bool {
	if s.full {
		return false
	}
	s.frames = append(s.frames, frame)
	return true
}

func newTestRouter() (*SessionRouter, *recordingFinalizer, *captureSink) {
	finalizer := &recordingFinalizer{}
	sink := &captureSink{}
	router := NewSessionRouter(finalizer, sink)
	router.SetOutput(&bytes.Buffer{})
	return router, finalizer, sink
}

func TestRouterRecordsChatIDOnce(t *testing.T) {
	router, _, _ := newTestRouter()

	if err := router.OnEvent(ChatMetadata{ChatID: "first"}); err != nil {
		t.Fatalf("OnEvent err: %v", err)
	}
	if err := router.OnEvent(ChatMetadata{ChatID: "second"}); err != nil {
		t.Fatalf("OnEvent err: %v", err)
	}

	if got := router.Session().ChatID; got != "first" {
		t.Fatalf("chat id must not be overwritten, got %s", got)
	}
}

func TestRouterAppendsTurns(t *testing.T) {
	router, _, _ := newTestRouter()

	events := []Event{
		TurnMessage{Role: "user", Content: "I went to the park", FromText: false,
			Scores: emotion.Scores{{Label: "Joy", Value: 0.8}}},
		TurnMessage{Role: "assistant", Content: "How did that feel?", FromText: true},
	}
	for _, ev := range events {
		if err := router.OnEvent(ev); err != nil {
			t.Fatalf("OnEvent err: %v", err)
		}
	}

	msgs := router.Session().Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != journal.RoleUser || len(msgs[0].Emotions) != 1 {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Role != journal.RoleAssistant || len(msgs[1].Emotions) != 0 {
		t.Fatalf("unexpected second message: %+v", msgs[1])
	}
	if msgs[0].Timestamp.IsZero() {
		t.Fatal("message timestamp not set")
	}
}

func TestRouterTextTurnDropsScores(t *testing.T) {
	router, _, _ := newTestRouter()

	turn := TurnMessage{Role: "user", Content: "typed hello", FromText: true,
		Scores: emotion.Scores{{Label: "Joy", Value: 0.9}}}
	if err := router.OnEvent(turn); err != nil {
		t.Fatalf("OnEvent err: %v", err)
	}

	if got := router.Session().Messages[0].Emotions; len(got) != 0 {
		t.Fatalf("text-only turn must not carry emotions, got %v", got)
	}
}

func TestRouterForwardsAudioWithoutAppending(t *testing.T) {
	router, _, sink := newTestRouter()

	if err := router.OnEvent(AudioOutput{ID: "a1", Data: "aGVsbG8="}); err != nil {
		t.Fatalf("OnEvent err: %v", err)
	}

	if len(sink.frames) != 1 || string(sink.frames[0]) != "hello" {
		t.Fatalf("audio not forwarded to sink: %v", sink.frames)
	}
	if len(router.Session().Messages) != 0 {
		t.Fatal("audio output must never enter session history")
	}
}

func TestRouterSkipsUndecodableAudio(t *testing.T) {
	router, _, sink := newTestRouter()

	if err := router.OnEvent(AudioOutput{ID: "a2", Data: "%%%"}); err != nil {
		t.Fatalf("decode failure must be non-fatal, got %v", err)
	}
	if len(sink.frames) != 0 {
		t.Fatal("invalid payload must not reach the sink")
	}
}

func TestRouterErrorEventIsTerminal(t *testing.T) {
	router, _, _ := newTestRouter()

	err := router.OnEvent(ErrorEvent{Code: "E1", Message: "server unhappy"})
	if err == nil {
		t.Fatal("expected terminal error")
	}

	var serverErr ErrorEvent
	if !errors.As(err, &serverErr) || serverErr.Code != "E1" {
		t.Fatalf("expected ErrorEvent, got %v", err)
	}
}

func TestRouterUnknownKindPrintsTag(t *testing.T) {
	router, _, _ := newTestRouter()
	var buf bytes.Buffer
	router.SetOutput(&buf)

	if err := router.OnEvent(UnknownEvent{Type: "assistant_end"}); err != nil {
		t.Fatalf("OnEvent err: %v", err)
	}
	if !strings.Contains(buf.String(), "<ASSISTANT_END>") {
		t.Fatalf("expected generic tag in output, got %q", buf.String())
	}
	if len(router.Session().Messages) != 0 {
		t.Fatal("unknown events must not append messages")
	}
}

func TestRouterCloseFinalizesExactlyOnce(t *testing.T) {
	router, finalizer, _ := newTestRouter()
	ctx := context.Background()

	router.OnEvent(ChatMetadata{ChatID: "chat-1"})
	router.OnEvent(TurnMessage{Role: "user", Content: "hello"})

	if err := router.Close(ctx); err != nil {
		t.Fatalf("Close err: %v", err)
	}
	if err := router.Close(ctx); err != nil {
		t.Fatalf("second Close err: %v", err)
	}

	if finalizer.calls != 1 {
		t.Fatalf("finalize must run exactly once, ran %d times", finalizer.calls)
	}
	if finalizer.lastSess.ChatID != "chat-1" {
		t.Fatalf("unexpected session handed to finalizer: %+v", finalizer.lastSess)
	}
}

func TestRouterCloseSkipsEmptySession(t *testing.T) {
	router, finalizer, _ := newTestRouter()

	router.OnEvent(ChatMetadata{ChatID: "chat-2"})

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close err: %v", err)
	}
	if finalizer.calls != 0 {
		t.Fatal("empty session must not be persisted")
	}
}

func TestRouterClosePropagatesFinalizeError(t *testing.T) {
	router, finalizer, _ := newTestRouter()
	finalizer.err = errors.New("store down")

	router.OnEvent(ChatMetadata{ChatID: "chat-3"})
	router.OnEvent(TurnMessage{Role: "user", Content: "hi"})

	if err := router.Close(context.Background()); err == nil {
		t.Fatal("expected finalize error to propagate")
	}
}

package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hirepulse/hirepulse-backend/internal/event"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	batchErr error
	batches  int
	inserted []string
}

func (f *fakeSessionStore) InsertBatch(_ context.Context, sessions []*model.Session) error {
	f.batches++
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, s := range sessions {
		f.inserted = append(f.inserted, s.ID)
	}
	return nil
}

func (f *fakeSessionStore) Insert(_ context.Context, s *model.Session) error {
	f.inserted = append(f.inserted, s.ID)
	return nil
}

type fakePublisher struct {
	events []event.SessionCompletedEvent
	err    error
}

func (f *fakePublisher) PublishSessionCompleted(_ context.Context, ev event.SessionCompletedEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func sessions(ids ...string) []*model.Session {
	out := make([]*model.Session, 0, len(ids))
	for _, id := range ids {
		out = append(out, &model.Session{ID: id, UserEmail: id + "@x.io", Status: model.SessionStatusCompleted})
	}
	return out
}

func TestSessionWorker_FlushAnnouncesStoredSessions(t *testing.T) {
	store := &fakeSessionStore{}
	pub := &fakePublisher{}
	w := NewSessionWorker(store, pub, nil, zerolog.Nop())

	w.flushSafe(context.Background(), sessions("s1", "s2"))

	assert.Equal(t, 1, store.batches)
	assert.Equal(t, []string{"s1", "s2"}, store.inserted)
	require.Len(t, pub.events, 2)
	assert.Equal(t, event.SessionCompleted, pub.events[0].EventType)
	assert.Equal(t, "s1", pub.events[0].SessionID)
}

func TestSessionWorker_FallsBackToSingleInserts(t *testing.T) {
	store := &fakeSessionStore{batchErr: errors.New("deadlock detected")}
	pub := &fakePublisher{}
	w := NewSessionWorker(store, pub, nil, zerolog.Nop())

	w.flushSafe(context.Background(), sessions("s1", "s2", "s3"))

	assert.Equal(t, []string{"s1", "s2", "s3"}, store.inserted)
	assert.Len(t, pub.events, 3)
}

func TestSessionWorker_PublishFailureDoesNotBlockPersistence(t *testing.T) {
	store := &fakeSessionStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	w := NewSessionWorker(store, pub, nil, zerolog.Nop())

	w.flushSafe(context.Background(), sessions("s1"))
	assert.Equal(t, []string{"s1"}, store.inserted)
}

type fakeProctoringStore struct {
	copyErr  error
	copied   int
	inserted int
}

func (f *fakeProctoringStore) CopyProctoringEvents(_ context.Context, events []*model.ProctoringEvent) error {
	if f.copyErr != nil {
		return f.copyErr
	}
	f.copied += len(events)
	return nil
}

func (f *fakeProctoringStore) InsertProctoringEvent(context.Context, *model.ProctoringEvent) error {
	f.inserted++
	return nil
}

func TestProctorWorker_Flush(t *testing.T) {
	batch := []*model.ProctoringEvent{
		{ExamCode: "ABC123", Email: "a@x.io", Kind: model.ProctoringVisibilityHidden},
		{ExamCode: "ABC123", Email: "b@x.io", Kind: model.ProctoringVisibilityHidden},
	}

	store := &fakeProctoringStore{}
	NewProctorWorker(store, nil, zerolog.Nop()).flushSafe(context.Background(), batch)
	assert.Equal(t, 2, store.copied)
	assert.Zero(t, store.inserted)

	store = &fakeProctoringStore{copyErr: errors.New("copy failed")}
	NewProctorWorker(store, nil, zerolog.Nop()).flushSafe(context.Background(), batch)
	assert.Equal(t, 2, store.inserted)
}

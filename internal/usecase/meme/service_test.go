package meme

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/memedex/internal/domain"
	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
)

// --- Mocks ---

type mockRepo struct {
	nextID    int64
	inserted  []dommeme.Meme
	memes     map[int64]dommeme.Meme
	insertErr error
	updateErr error
	deleteErr error

	inFlight   atomic.Int32
	overlapped atomic.Bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{nextID: 1, memes: make(map[int64]dommeme.Meme)}
}

func (m *mockRepo) Insert(_ context.Context, x dommeme.Meme) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	id := m.nextID
	m.nextID++
	m.inserted = append(m.inserted, x)
	m.memes[id] = x.WithID(id)
	return id, nil
}

func (m *mockRepo) UpdateFields(_ context.Context, id int64, p patch.Patch) (dommeme.Meme, error) {
	if m.inFlight.Add(1) > 1 {
		m.overlapped.Store(true)
	}
	defer m.inFlight.Add(-1)
	time.Sleep(time.Millisecond)

	if m.updateErr != nil {
		return dommeme.Meme{}, m.updateErr
	}
	return dommeme.Reconstruct(id, "p", "f", "c", "", *p.Text(), "", nil, time.Time{}), nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.memes, id)
	return nil
}

func (m *mockRepo) GetByIDs(_ context.Context, ids []int64) ([]dommeme.Meme, error) {
	var out []dommeme.Meme
	for _, id := range ids {
		if x, ok := m.memes[id]; ok {
			out = append(out, x)
		}
	}
	return out, nil
}

func (m *mockRepo) GetRecent(_ context.Context, _ int) ([]dommeme.Meme, error) {
	return nil, nil
}

func draft() dommeme.Draft {
	return dommeme.Draft{Path: "a/b.png", Filename: "b.png", Category: "a", Text: "hello"}
}

// --- Tests ---

func TestCreate(t *testing.T) {
	repo := newMockRepo()
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := New(repo).WithClock(func() time.Time { return at })

	m, err := svc.Create(context.Background(), draft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID() != 1 {
		t.Errorf("ID() = %d, want 1", m.ID())
	}
	if !m.CreatedAt().Equal(at) {
		t.Errorf("CreatedAt() = %v, want %v", m.CreatedAt(), at)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].ID() != 0 {
		t.Error("repo must receive the unsaved record")
	}
}

func TestCreate_Invalid(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)

	d := draft()
	d.Path = ""
	_, err := svc.Create(context.Background(), d)
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("err = %v, want ErrInvalidRecord", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("invalid record must not reach the repo")
	}
}

func TestCreate_IndexFailure(t *testing.T) {
	repo := newMockRepo()
	repo.insertErr = domain.ErrIndexConsistency
	_, err := New(repo).Create(context.Background(), draft())
	if !errors.Is(err, domain.ErrIndexConsistency) {
		t.Fatalf("err = %v, want ErrIndexConsistency", err)
	}
}

func TestGet(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	created, _ := svc.Create(context.Background(), draft())

	got, err := svc.Get(context.Background(), created.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != created.ID() {
		t.Errorf("ID() = %d", got.ID())
	}

	if _, err := svc.Get(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate_PropagatesErrors(t *testing.T) {
	repo := newMockRepo()
	repo.updateErr = domain.ErrNotFound
	text := "x"
	p, _ := patch.New(&text, nil, nil, nil)

	if _, err := New(repo).Update(context.Background(), 1, p); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate_SerializesSameID(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	text := "x"
	p, _ := patch.New(&text, nil, nil, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Update(context.Background(), 7, p)
		}()
	}
	wg.Wait()

	if repo.overlapped.Load() {
		t.Error("concurrent updates of one id overlapped")
	}
}

func TestDelete(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	created, _ := svc.Create(context.Background(), draft())

	if err := svc.Delete(context.Background(), created.ID()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}

	repo.deleteErr = domain.ErrIndexConsistency
	if err := svc.Delete(context.Background(), 1); !errors.Is(err, domain.ErrIndexConsistency) {
		t.Errorf("err = %v, want ErrIndexConsistency", err)
	}
}

func TestStripedLock_SameStripeForSameID(t *testing.T) {
	var l stripedLock
	unlock := l.lock(3)
	done := make(chan struct{})
	go func() {
		u := l.lock(3)
		u()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("second lock of the same id did not block")
	case <-time.After(10 * time.Millisecond):
	}
	unlock()
	<-done
}

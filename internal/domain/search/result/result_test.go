package result

import (
	"testing"
	"time"

	"github.com/kailas-cloud/memedex/internal/domain/meme"
)

func TestNew(t *testing.T) {
	m := meme.Reconstruct(7, "a/b.png", "b.png", "a", "", "hi", "", nil, time.Now())
	r := New(m, 2.5)

	got := r.Meme()
	if got.ID() != 7 {
		t.Errorf("Meme().ID() = %d", got.ID())
	}
	if r.Score() != 2.5 {
		t.Errorf("Score() = %f", r.Score())
	}
	if !r.Scored() {
		t.Error("Scored() = false")
	}
}

func TestUnscored(t *testing.T) {
	r := Unscored(meme.Reconstruct(1, "p", "f", "c", "", "", "", nil, time.Now()))
	if r.Scored() || r.Score() != 0 {
		t.Errorf("got scored=%v score=%f", r.Scored(), r.Score())
	}
}

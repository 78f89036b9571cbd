package hit

import (
	"reflect"
	"testing"
	"time"
)

func TestSort(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	hits := []Hit{
		{ID: 1, Score: 1, CreatedAt: t0},
		{ID: 2, Score: 3, CreatedAt: t0},
		{ID: 3, Score: 1, CreatedAt: t1},
		{ID: 4, Score: 1, CreatedAt: t1},
		{ID: 5, Score: 2, CreatedAt: t0},
	}
	Sort(hits)

	var ids []int64
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	want := []int64{2, 5, 4, 3, 1}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestSort_IndependentOfInputOrder(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := []Hit{{ID: 1, Score: 1, CreatedAt: t0}, {ID: 2, Score: 1, CreatedAt: t0}, {ID: 3, Score: 1, CreatedAt: t0}}
	b := []Hit{a[2], a[0], a[1]}
	Sort(a)
	Sort(b)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("orders differ: %v vs %v", a, b)
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]Candidate{{ID: 1, Score: 1}, {ID: 2, Score: 5}, {ID: 1, Score: 3}, {ID: 2, Score: 4}})
	want := []Candidate{{ID: 1, Score: 3}, {ID: 2, Score: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe = %v, want %v", got, want)
	}
}

package notes_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
)

func TestLiveSearch_RunsLastQueryOnce(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	s.Create(ctx, "alpha", "first")
	s.Create(ctx, "beta", "second")

	var mu sync.Mutex
	var queries []string
	var last []models.Note
	done := make(chan struct{}, 4)

	ls := notes.NewLiveSearch(s, 20*time.Millisecond, func(q string, found []models.Note) {
		mu.Lock()
		queries = append(queries, q)
		last = found
		mu.Unlock()
		done <- struct{}{}
	})
	defer ls.Close()

	for _, q := range []string{"b", "be", "bet", "beta"} {
		ls.Input(q)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("search never ran")
	}
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(queries) != 1 || queries[0] != "beta" {
		t.Fatalf("queries = %v, want [beta]", queries)
	}
	if len(last) != 1 || last[0].Title != "beta" {
		t.Errorf("result = %+v", last)
	}
}

func TestLiveSearch_Cancel(t *testing.T) {
	s, _, _ := newTestStore(t)

	ran := make(chan struct{}, 1)
	ls := notes.NewLiveSearch(s, 20*time.Millisecond, func(string, []models.Note) {
		ran <- struct{}{}
	})
	defer ls.Close()

	ls.Input("anything")
	if !ls.Cancel() {
		t.Fatal("Cancel() = false, want true")
	}
	select {
	case <-ran:
		t.Fatal("cancelled search ran")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestLiveSearch_Flush(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.Create(context.Background(), "now", "please")

	var got []models.Note
	ls := notes.NewLiveSearch(s, time.Hour, func(_ string, found []models.Note) { got = found })
	defer ls.Close()

	ls.Input("now")
	if !ls.Flush() {
		t.Fatal("Flush() = false, want true")
	}
	if len(got) != 1 {
		t.Errorf("flushed result = %+v", got)
	}
}

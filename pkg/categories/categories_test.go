package categories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dtnitsch/wp-stylometry/pkg/fetcher"
	"github.com/google/go-cmp/cmp"
)

func staticLookup(names map[int64]string, calls *int32) LookupFunc {
	return func(ctx context.Context, id int64) (string, error) {
		atomic.AddInt32(calls, 1)
		name, ok := names[id]
		if !ok {
			return "", errors.New("not found")
		}
		return name, nil
	}
}

func TestResolve_OrderAndCaching(t *testing.T) {
	var calls int32
	r := NewResolver(NewCache(), staticLookup(map[int64]string{1: "Politik", 2: "Sport"}, &calls), nil)
	ctx := context.Background()

	got := r.Resolve(ctx, []int64{2, 1, 2})
	want := []string{"Sport", "Politik", "Sport"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}

	r.Resolve(ctx, []int64{1, 2})
	if calls != 2 {
		t.Errorf("lookup called %d times, want 2", calls)
	}
}

func TestResolve_FallbackIsCached(t *testing.T) {
	var calls int32
	r := NewResolver(NewCache(), staticLookup(map[int64]string{}, &calls), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got := r.Name(ctx, 42); got != "Unknown-42" {
			t.Fatalf("Name() = %q, want %q", got, "Unknown-42")
		}
	}
	if calls != 1 {
		t.Errorf("failed lookup retried: %d calls", calls)
	}
	if diff := cmp.Diff([]int64{42}, r.Unknown()); diff != "" {
		t.Errorf("Unknown() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_EmptyNameFallsBack(t *testing.T) {
	r := NewResolver(NewCache(), func(ctx context.Context, id int64) (string, error) {
		return "  ", nil
	}, nil)
	if got := r.Name(context.Background(), 7); got != "Unknown-7" {
		t.Errorf("Name() = %q, want %q", got, "Unknown-7")
	}
}

func TestHTTPLookup(t *testing.T) {
	var mu sync.Mutex
	hits := make(map[string]int)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()

		switch r.URL.Path {
		case "/categories/1":
			_, _ = w.Write([]byte(`{"id":1,"name":"Politik"}`))
		case "/categories/2":
			_, _ = w.Write([]byte(`{"id":2}`))
		case "/categories/3":
			_, _ = w.Write([]byte(`not json`))
		case "/categories/5":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := fetcher.NewFetcher(5*time.Second, "")
	lookup := HTTPLookup(f, func(id int64) string {
		return fmt.Sprintf("%s/categories/%d", srv.URL, id)
	})
	r := NewResolver(NewCache(), lookup, nil)
	ctx := context.Background()

	tests := []struct {
		id   int64
		want string
	}{
		{id: 1, want: "Politik"},
		{id: 2, want: "Unknown-2"},
		{id: 3, want: "Unknown-3"},
		{id: 4, want: "Unknown-4"},
		{id: 5, want: "Unknown-5"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("id %d", tt.id), func(t *testing.T) {
			if got := r.Name(ctx, tt.id); got != tt.want {
				t.Errorf("Name(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}

	// A 404ing id resolves identically for every article referencing it.
	for i := 0; i < 5; i++ {
		if got := r.Resolve(ctx, []int64{4, 1}); got[0] != "Unknown-4" || got[1] != "Politik" {
			t.Fatalf("Resolve() = %v", got)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for path, n := range hits {
		if n != 1 {
			t.Errorf("%s requested %d times, want 1", path, n)
		}
	}
}

func TestPrefetch_MatchesSequential(t *testing.T) {
	names := map[int64]string{}
	var ids []int64
	for i := int64(1); i <= 40; i++ {
		if i%7 != 0 {
			names[i] = fmt.Sprintf("Kategorie %d", i)
		}
		ids = append(ids, i, i)
	}

	var seqCalls, parCalls int32
	seq := NewResolver(NewCache(), staticLookup(names, &seqCalls), nil)
	par := NewResolver(NewCache(), staticLookup(names, &parCalls), nil)
	ctx := context.Background()

	par.Prefetch(ctx, ids, 8)
	if parCalls != 40 {
		t.Errorf("Prefetch() made %d lookups, want 40", parCalls)
	}

	want := seq.Resolve(ctx, ids)
	got := par.Resolve(ctx, ids)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prefetched resolution differs (-seq +par):\n%s", diff)
	}
	if parCalls != 40 {
		t.Errorf("Resolve() after Prefetch() made extra lookups: %d", parCalls)
	}
	if diff := cmp.Diff(seq.Unknown(), par.Unknown()); diff != "" {
		t.Errorf("Unknown() mismatch (-seq +par):\n%s", diff)
	}
}

func TestCache_SnapshotSkipsFallbacks(t *testing.T) {
	c := NewCache()
	c.Load(map[int64]string{1: "Politik"})
	c.Set(2, Entry{Name: "Unknown-2", Fallback: true})

	want := map[int64]string{1: "Politik"}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestFallbackName(t *testing.T) {
	if got := FallbackName(123); got != "Unknown-123" {
		t.Errorf("FallbackName() = %q", got)
	}
}

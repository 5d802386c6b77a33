package reader_test

import (
	"sync"
	"testing"
	"time"

	"mangaread/internal/errors"
	"mangaread/internal/reader"
	"mangaread/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves deterministic pages from memory. Page content is
// just the page index as a single byte.
type fakeFetcher struct {
	manga   *types.Manga
	infoErr error

	mu     sync.Mutex
	calls  []int
	failOn map[int]bool
}

func newFakeFetcher(pages int) *fakeFetcher {
	return &fakeFetcher{
		manga: &types.Manga{
			ID:          1,
			EnglishName: "test manga",
			Pages:       pages,
		},
		failOn: make(map[int]bool),
	}
}

func (f *fakeFetcher) FetchInfo() (*types.Manga, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.manga, nil
}

func (f *fakeFetcher) FetchPage(index int) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, index)
	fail := f.failOn[index]
	f.mu.Unlock()

	if fail {
		return nil, errors.NewFetchError("page image missing", index, errors.NotFound, nil)
	}
	return []byte{byte(index)}, nil
}

func (f *fakeFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func composedImageIndices(slots []reader.ViewSlot) []int {
	var out []int
	for _, s := range slots {
		if s.Kind == reader.ImageSlot {
			out = append(out, s.Index)
		}
	}
	return out
}

func startSession(t *testing.T, fetcher *fakeFetcher) *reader.Session {
	t.Helper()
	s := reader.NewSession(fetcher, 3, testPageHeight)
	require.NoError(t, s.Start())
	t.Cleanup(s.Close)
	waitFor(t, "initial fill", s.Ready)
	return s
}

func TestSessionInitialFill(t *testing.T) {
	fetcher := newFakeFetcher(20)
	s := startSession(t, fetcher)

	assert.Equal(t, 0, s.Anchor())
	assert.Equal(t, "test manga", s.Manga().EnglishName)

	slots := s.ComposedSlots()
	require.Len(t, slots, 20)
	assert.Equal(t, []int{0, 1, 2}, composedImageIndices(slots))
}

func TestSessionStartFailures(t *testing.T) {
	t.Run("metadata failure is fatal", func(t *testing.T) {
		fetcher := newFakeFetcher(20)
		fetcher.infoErr = errors.NewFetchError("metadata not found", -1, errors.NotFound, nil)

		s := reader.NewSession(fetcher, 3, testPageHeight)
		assert.Error(t, s.Start())
	})

	t.Run("document smaller than the window", func(t *testing.T) {
		fetcher := newFakeFetcher(2)
		s := reader.NewSession(fetcher, 3, testPageHeight)
		assert.Error(t, s.Start())
	})
}

func TestSessionNotReadyBeforeFill(t *testing.T) {
	fetcher := newFakeFetcher(20)
	s := reader.NewSession(fetcher, 3, testPageHeight)
	assert.False(t, s.Ready())
	assert.Nil(t, s.ComposedSlots())
}

func TestSessionScrollForwardAndBack(t *testing.T) {
	fetcher := newFakeFetcher(20)
	s := startSession(t, fetcher)

	// Scroll down one page at a time to page 3; pages 3 and 4 arrive as
	// the window slides.
	s.Scroll(2 * testPageHeight)
	waitFor(t, "window to reach page 3", func() bool {
		idx := composedImageIndices(s.ComposedSlots())
		return len(idx) == 3 && idx[2] == 3
	})
	assert.Equal(t, []int{1, 2, 3}, composedImageIndices(s.ComposedSlots()))
	assert.Equal(t, 2, s.Anchor())

	s.Scroll(3 * testPageHeight)
	waitFor(t, "window to reach page 4", func() bool {
		idx := composedImageIndices(s.ComposedSlots())
		return len(idx) == 3 && idx[2] == 4
	})
	assert.Equal(t, []int{2, 3, 4}, composedImageIndices(s.ComposedSlots()))

	// Back up one page: the window slides backward and refetches page 1.
	s.Scroll(2 * testPageHeight)
	waitFor(t, "window to slide back", func() bool {
		idx := composedImageIndices(s.ComposedSlots())
		return len(idx) == 3 && idx[0] == 1
	})
	assert.Equal(t, []int{1, 2, 3}, composedImageIndices(s.ComposedSlots()))
	assert.Equal(t, 2, s.Anchor())
}

func TestSessionScrollWithinPageIsQuiet(t *testing.T) {
	fetcher := newFakeFetcher(20)
	s := startSession(t, fetcher)
	baseline := fetcher.fetchCount()

	// Offsets inside page 0 map to the same candidate; nothing to do.
	s.Scroll(1)
	s.Scroll(testPageHeight - 1)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, baseline, fetcher.fetchCount())
	assert.Equal(t, []int{0, 1, 2}, composedImageIndices(s.ComposedSlots()))
}

func TestSessionFailedFetchLeavesWindowAlone(t *testing.T) {
	fetcher := newFakeFetcher(20)
	fetcher.failOn[3] = true
	s := startSession(t, fetcher)
	baseline := fetcher.fetchCount()

	// Page 3's fetch fails: anchor still moves, window stays put.
	s.Scroll(2 * testPageHeight)
	waitFor(t, "failed fetch to be attempted", func() bool {
		return fetcher.fetchCount() > baseline
	})
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 2, s.Anchor())
	assert.Equal(t, []int{0, 1, 2}, composedImageIndices(s.ComposedSlots()))

	// The next scroll forward computes a fresh target and recovers.
	s.Scroll(3 * testPageHeight)
	waitFor(t, "recovery fetch", func() bool {
		idx := composedImageIndices(s.ComposedSlots())
		return len(idx) == 3 && idx[2] == 4
	})
	assert.Equal(t, 3, s.Anchor())
}

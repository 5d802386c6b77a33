package reader

import (
	"sync"

	"mangaread/internal/errors"
	"mangaread/internal/log"
	"mangaread/pkg/types"
)

// Fetcher is the session's view of the remote page source.
type Fetcher interface {
	FetchInfo() (*types.Manga, error)
	FetchPage(index int) ([]byte, error)
}

type event interface{}

type scrollEvent struct {
	offset float64
}

type fetchedEvent struct {
	slot    Slot
	kind    DecisionKind
	initial bool
	err     error
}

// Session owns all mutable engine state for one reading session. A single
// goroutine consumes scroll and fetch-completion events in arrival order;
// fetches run as independent goroutines that only produce events, never
// touch state. In-flight fetches are never cancelled, and a completion
// arriving after a newer scroll is still applied in arrival order.
type Session struct {
	fetcher    Fetcher
	manga      *types.Manga
	window     *Window
	ctrl       *Controller
	pageHeight float64

	events chan event
	stop   chan struct{}
	once   sync.Once

	// mu guards window and controller state for readers outside the
	// event loop; all mutation still happens on the loop goroutine.
	mu sync.RWMutex
}

// NewSession creates a session over the given fetcher. windowSize is the
// number of pages kept in memory, pageHeight the fixed display height of
// one page.
func NewSession(fetcher Fetcher, windowSize int, pageHeight float64) *Session {
	return &Session{
		fetcher:    fetcher,
		window:     NewWindow(windowSize),
		ctrl:       NewController(windowSize),
		pageHeight: pageHeight,
		events:     make(chan event, 32),
		stop:       make(chan struct{}),
	}
}

// Start fetches the document metadata, then kicks off the event loop and
// the initial fill: one concurrent fetch per window slot, pages 0..W-1.
// A metadata failure is fatal; the session cannot start without it.
func (s *Session) Start() error {
	manga, err := s.fetcher.FetchInfo()
	if err != nil {
		return errors.Wrap(err, "fetching manga info")
	}
	if manga.Pages < s.window.Capacity() {
		return errors.Newf("document has %d pages, need at least %d", manga.Pages, s.window.Capacity())
	}
	s.manga = manga

	go s.loop()

	for i := 0; i < s.window.Capacity(); i++ {
		go s.fetchInitial(i)
	}

	log.LogWithFields(log.F("pages", manga.Pages), log.F("window", s.window.Capacity())).
		Info("reading session started")
	return nil
}

// Close stops the event loop. Fetches still in flight run to completion
// but their results are discarded.
func (s *Session) Close() {
	s.once.Do(func() { close(s.stop) })
}

// Scroll feeds a new scroll offset into the session.
func (s *Session) Scroll(offset float64) {
	s.deliver(scrollEvent{offset: offset})
}

// Manga returns the document metadata. Immutable after Start.
func (s *Session) Manga() *types.Manga {
	return s.manga
}

// PageHeight returns the fixed display height of one page.
func (s *Session) PageHeight() float64 {
	return s.pageHeight
}

// Anchor returns the page index the engine currently considers current.
func (s *Session) Anchor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl.Anchor()
}

// Ready reports whether the initial fill has completed.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window.Full()
}

// ComposedSlots re-derives the full renderable slot list from the current
// window and anchor. It returns nil until the initial fill completes;
// callers render an empty state instead.
func (s *Session) ComposedSlots() []ViewSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.window.Full() {
		return nil
	}
	return Compose(s.window.Slots(), s.ctrl.Anchor(), s.manga.Pages, s.pageHeight)
}

func (s *Session) deliver(ev event) {
	select {
	case s.events <- ev:
	case <-s.stop:
	}
}

func (s *Session) loop() {
	// Initial-fill completions can arrive in any order; collect them
	// here and fill the window once all slots are present.
	fill := make(map[int][]byte)

	for {
		select {
		case <-s.stop:
			return
		case ev := <-s.events:
			switch ev := ev.(type) {
			case scrollEvent:
				s.onScroll(ev.offset)
			case fetchedEvent:
				s.onFetched(ev, fill)
			}
		}
	}
}

func (s *Session) onScroll(offset float64) {
	candidate := PageAt(offset, s.pageHeight)

	s.mu.Lock()
	decision := s.ctrl.OnPositionChanged(candidate, s.manga.Pages)
	s.mu.Unlock()

	if decision.Kind == NoOp {
		return
	}

	log.LogWithFields(
		log.F("candidate", candidate),
		log.F("target", decision.Target),
		log.F("direction", decision.Kind.String()),
	).Debugf("prefetching page")

	go s.fetchPage(decision)
}

func (s *Session) fetchInitial(index int) {
	content, err := s.fetcher.FetchPage(index)
	s.deliver(fetchedEvent{
		slot:    Slot{Index: index, Content: content},
		initial: true,
		err:     err,
	})
}

func (s *Session) fetchPage(d Decision) {
	content, err := s.fetcher.FetchPage(d.Target)
	s.deliver(fetchedEvent{
		slot: Slot{Index: d.Target, Content: content},
		kind: d.Kind,
		err:  err,
	})
}

// onFetched applies a completed fetch to the window. A failed fetch is
// recoverable: the window stays as it is and the anchor keeps its already
// updated value, so the next scroll in the same direction computes a
// fresh target and tries again.
func (s *Session) onFetched(ev fetchedEvent, fill map[int][]byte) {
	if ev.err != nil {
		log.LogWithFields(log.F("page", ev.slot.Index), log.F("error", ev.err)).
			Error("page fetch failed, window unchanged")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.initial {
		fill[ev.slot.Index] = ev.slot.Content
		if len(fill) < s.window.Capacity() {
			return
		}
		slots := make([]Slot, 0, s.window.Capacity())
		for i := 0; i < s.window.Capacity(); i++ {
			slots = append(slots, Slot{Index: i, Content: fill[i]})
		}
		if err := s.window.FillInitial(slots); err != nil {
			log.Error("initial window fill failed", err)
		}
		return
	}

	switch ev.kind {
	case FetchForward:
		s.window.AdvanceForward(ev.slot)
	case FetchBackward:
		s.window.AdvanceBackward(ev.slot)
	}
}

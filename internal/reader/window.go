package reader

import (
	"mangaread/internal/errors"
	"mangaread/internal/log"
)

// Slot pairs a document page index with its loaded content. Tagging each
// entry with its index keeps the buffer's span observable even when fetch
// completions arrive out of request order.
type Slot struct {
	Index   int
	Content []byte
}

// Window is the fixed-capacity buffer of materialized pages. It holds a
// contiguous run of pages when the controller feeds it correctly; it does
// not reject a non-adjacent insert, it only logs it, because completions
// are applied in arrival order.
type Window struct {
	capacity int
	slots    []Slot
}

// NewWindow creates an empty window with the given capacity.
func NewWindow(capacity int) *Window {
	return &Window{
		capacity: capacity,
		slots:    make([]Slot, 0, capacity),
	}
}

// Capacity returns the fixed number of pages the window holds once full.
func (w *Window) Capacity() int {
	return w.capacity
}

// Full reports whether the window holds its full complement of pages.
func (w *Window) Full() bool {
	return len(w.slots) == w.capacity
}

// FillInitial populates the empty window with exactly capacity slots in
// ascending index order. It is only valid once, before any advance.
func (w *Window) FillInitial(slots []Slot) error {
	if len(w.slots) != 0 {
		return errors.New("window already filled")
	}
	if len(slots) != w.capacity {
		return errors.Newf("initial fill needs %d pages, got %d", w.capacity, len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Index != slots[i-1].Index+1 {
			return errors.Newf("initial fill is not contiguous at page %d", slots[i].Index)
		}
	}
	w.slots = append(w.slots, slots...)
	return nil
}

// AdvanceForward evicts the front slot and appends s at the back, shifting
// the window one page toward higher indices.
func (w *Window) AdvanceForward(s Slot) {
	if len(w.slots) == 0 {
		w.slots = append(w.slots, s)
		return
	}
	if back := w.slots[len(w.slots)-1]; s.Index != back.Index+1 {
		log.LogWithFields(log.F("inserted", s.Index), log.F("back", back.Index)).
			Warn("window advanced with a non-adjacent page")
	}
	if len(w.slots) == w.capacity {
		w.slots = w.slots[1:]
	}
	w.slots = append(w.slots, s)
}

// AdvanceBackward evicts the back slot and prepends s at the front,
// shifting the window one page toward lower indices.
func (w *Window) AdvanceBackward(s Slot) {
	if len(w.slots) == 0 {
		w.slots = append(w.slots, s)
		return
	}
	if front := w.slots[0]; s.Index != front.Index-1 {
		log.LogWithFields(log.F("inserted", s.Index), log.F("front", front.Index)).
			Warn("window advanced with a non-adjacent page")
	}
	if len(w.slots) == w.capacity {
		w.slots = w.slots[:len(w.slots)-1]
	}
	w.slots = append([]Slot{s}, w.slots...)
}

// Slots returns a copy of the buffered pages in window order.
func (w *Window) Slots() []Slot {
	out := make([]Slot, len(w.slots))
	copy(out, w.slots)
	return out
}

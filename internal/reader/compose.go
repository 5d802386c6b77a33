package reader

// ViewSlotKind distinguishes a real page from a placeholder spacer.
type ViewSlotKind int

const (
	SpacerSlot ViewSlotKind = iota
	ImageSlot
)

// ViewSlot is one renderable unit of the virtualized document: either a
// loaded page or a spacer standing in for an unloaded one. Every slot has
// the same height, which is what keeps the scrollbar and the offset
// arithmetic stable while pages come and go.
type ViewSlot struct {
	Kind    ViewSlotKind
	Index   int
	Content []byte
	Height  float64
}

// Compose derives the full renderable list for the document: pageCount
// slots whose heights always sum to pageCount*pageHeight. The window's
// pages are placed around the anchor; everything else is spacers. Callers
// must not invoke it before the window is full.
//
// Near the start and end of the document the window cannot center on the
// anchor, so the images sit flush against that edge.
func Compose(window []Slot, anchor, pageCount int, pageHeight float64) []ViewSlot {
	w := len(window)
	half := w / 2

	out := make([]ViewSlot, 0, pageCount)
	spacer := func(index int) ViewSlot {
		return ViewSlot{Kind: SpacerSlot, Index: index, Height: pageHeight}
	}
	image := func(s Slot) ViewSlot {
		return ViewSlot{Kind: ImageSlot, Index: s.Index, Content: s.Content, Height: pageHeight}
	}

	switch {
	case anchor < half:
		// Near start: images first, spacers for the rest
		for _, s := range window {
			out = append(out, image(s))
		}
		for i := w; i < pageCount; i++ {
			out = append(out, spacer(i))
		}
	case anchor >= pageCount-half:
		// Near end: spacers first, images flush against the tail
		for i := 0; i < pageCount-w; i++ {
			out = append(out, spacer(i))
		}
		for _, s := range window {
			out = append(out, image(s))
		}
	default:
		for i := 0; i < anchor-half; i++ {
			out = append(out, spacer(i))
		}
		for _, s := range window {
			out = append(out, image(s))
		}
		for i := anchor + half + 1; i < pageCount; i++ {
			out = append(out, spacer(i))
		}
	}

	return out
}

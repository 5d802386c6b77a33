package reader

// DecisionKind says what, if anything, a position change asks of the
// window: nothing, one fetch applied at the back, or one fetch applied
// at the front.
type DecisionKind int

const (
	NoOp DecisionKind = iota
	FetchForward
	FetchBackward
)

func (k DecisionKind) String() string {
	switch k {
	case FetchForward:
		return "forward"
	case FetchBackward:
		return "backward"
	}
	return "noop"
}

// Decision is the controller's answer to a position change. Target is
// only meaningful for the two fetch kinds.
type Decision struct {
	Kind   DecisionKind
	Target int
}

// Controller turns reading-position changes into at most one fetch
// decision each, keeping the window centered on the reader. The anchor is
// the last position a decision was made for; it moves to the new position
// immediately, not when the fetch completes, so a scroll arriving while a
// fetch is still in flight is judged against the newer position.
type Controller struct {
	anchor     int
	windowSize int
}

// NewController creates a controller for a window of the given size,
// anchored at page 0.
func NewController(windowSize int) *Controller {
	return &Controller{windowSize: windowSize}
}

// Anchor returns the page index the controller currently considers
// current.
func (c *Controller) Anchor() int {
	return c.anchor
}

// OnPositionChanged compares the candidate position against the anchor
// and decides whether a page must be fetched. Movement toward higher
// indices fetches candidate+half and advances the window forward;
// movement toward lower indices fetches candidate-half and advances it
// backward. The guards keep every computed target inside [0, pageCount)
// and deliberately leave the asymmetric headroom of the reference
// behavior: forward only inside [half+1, pageCount-half-1), backward only
// inside [half, pageCount-half-2). For the default window of 3 these are
// [2, pageCount-2) and [1, pageCount-3).
func (c *Controller) OnPositionChanged(candidate, pageCount int) Decision {
	if candidate == c.anchor {
		return Decision{Kind: NoOp}
	}

	half := c.windowSize / 2
	prev := c.anchor
	c.anchor = candidate

	switch {
	case candidate > prev && candidate >= half+1 && candidate < pageCount-half-1:
		return Decision{Kind: FetchForward, Target: candidate + half}
	case candidate < prev && candidate >= half && candidate < pageCount-half-2:
		return Decision{Kind: FetchBackward, Target: candidate - half}
	}
	return Decision{Kind: NoOp}
}

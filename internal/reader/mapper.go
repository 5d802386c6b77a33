package reader

import "math"

// PageAt converts a continuous scroll offset into the index of the page
// under the top of the viewport, given the fixed display height of one
// page. The result is not clamped against the document; callers that
// need a valid page index must guard it themselves.
func PageAt(offset, pageHeight float64) int {
	if offset == 0 {
		return 0
	}
	return int(math.Floor(offset / pageHeight))
}

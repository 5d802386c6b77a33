package reader_test

import (
	"fmt"
	"testing"

	"mangaread/internal/reader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPageHeight = 12.0

func imagePositions(slots []reader.ViewSlot) []int {
	var out []int
	for i, s := range slots {
		if s.Kind == reader.ImageSlot {
			out = append(out, i)
		}
	}
	return out
}

func TestComposeDocumentShape(t *testing.T) {
	// Slot count and total height must match the full document for any
	// anchor, or the scrollbar drifts as pages load.
	pageCounts := []int{3, 4, 10, 20, 57}
	for _, pageCount := range pageCounts {
		for anchor := 0; anchor < pageCount; anchor++ {
			name := fmt.Sprintf("pages=%d anchor=%d", pageCount, anchor)
			t.Run(name, func(t *testing.T) {
				window := makeSlots(0, 1, 2)
				slots := reader.Compose(window, anchor, pageCount, testPageHeight)

				require.Len(t, slots, pageCount)
				total := 0.0
				images := 0
				for _, s := range slots {
					total += s.Height
					if s.Kind == reader.ImageSlot {
						images++
					}
				}
				assert.Equal(t, float64(pageCount)*testPageHeight, total)
				assert.Equal(t, 3, images)
			})
		}
	}
}

func TestComposeNearStart(t *testing.T) {
	window := makeSlots(0, 1, 2)
	slots := reader.Compose(window, 0, 20, testPageHeight)

	assert.Equal(t, []int{0, 1, 2}, imagePositions(slots))
	for i, s := range slots {
		assert.Equal(t, i, s.Index)
		if i < 3 {
			assert.Equal(t, reader.ImageSlot, s.Kind)
			assert.Equal(t, []byte{byte(i)}, s.Content)
		} else {
			assert.Equal(t, reader.SpacerSlot, s.Kind)
		}
	}
}

func TestComposeNearEnd(t *testing.T) {
	window := makeSlots(17, 18, 19)
	slots := reader.Compose(window, 19, 20, testPageHeight)

	assert.Equal(t, []int{17, 18, 19}, imagePositions(slots))
	for i := 0; i < 17; i++ {
		assert.Equal(t, reader.SpacerSlot, slots[i].Kind)
	}
}

func TestComposeMiddle(t *testing.T) {
	window := makeSlots(9, 10, 11)
	slots := reader.Compose(window, 10, 20, testPageHeight)

	assert.Equal(t, []int{9, 10, 11}, imagePositions(slots))
	assert.Equal(t, reader.SpacerSlot, slots[8].Kind)
	assert.Equal(t, reader.SpacerSlot, slots[12].Kind)
	for i, s := range slots {
		assert.Equal(t, i, s.Index)
	}
}

func TestComposeSecondToLastPage(t *testing.T) {
	// Anchor 18 of 20 still takes the middle branch, but its trailing
	// spacer run is empty: images end flush at the last page.
	window := makeSlots(17, 18, 19)
	slots := reader.Compose(window, 18, 20, testPageHeight)

	assert.Equal(t, []int{17, 18, 19}, imagePositions(slots))
	assert.Equal(t, reader.SpacerSlot, slots[16].Kind)
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	t.Run("intersecting windows overlap", func(t *testing.T) {
		assert.True(t, Overlaps(at(9), at(12), at(11), at(13)))
		assert.True(t, Overlaps(at(11), at(13), at(9), at(12)))
	})

	t.Run("containment overlaps", func(t *testing.T) {
		assert.True(t, Overlaps(at(9), at(18), at(10), at(11)))
		assert.True(t, Overlaps(at(10), at(11), at(9), at(18)))
	})

	t.Run("identical windows overlap", func(t *testing.T) {
		assert.True(t, Overlaps(at(9), at(12), at(9), at(12)))
	})

	t.Run("touching windows do not overlap", func(t *testing.T) {
		// Half-open semantics: one booking ending at 12:00 leaves the
		// slot free for another starting at 12:00.
		assert.False(t, Overlaps(at(9), at(12), at(12), at(15)))
		assert.False(t, Overlaps(at(12), at(15), at(9), at(12)))
	})

	t.Run("disjoint windows do not overlap", func(t *testing.T) {
		assert.False(t, Overlaps(at(9), at(10), at(14), at(15)))
	})

	t.Run("symmetric", func(t *testing.T) {
		pairs := [][4]int{{9, 12, 11, 13}, {9, 12, 12, 15}, {9, 10, 14, 15}}
		for _, p := range pairs {
			assert.Equal(t,
				Overlaps(at(p[0]), at(p[1]), at(p[2]), at(p[3])),
				Overlaps(at(p[2]), at(p[3]), at(p[0]), at(p[1])))
		}
	})
}

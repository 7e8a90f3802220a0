package seastate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeave(t *testing.T) {
	t.Parallel()

	t.Run("matches length times sine of pitch", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 1.198, Heave(0.1, 12), 0.001)
		assert.Equal(t, 20*math.Sin(0.25), Heave(0.25, 20))
	})

	t.Run("zero pitch yields zero heave", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, Heave(0, 12))
		assert.Zero(t, Heave(0, 50))
	})

	t.Run("bow-down pitch yields negative heave", func(t *testing.T) {
		t.Parallel()
		assert.Negative(t, Heave(-0.1, 12))
	})
}

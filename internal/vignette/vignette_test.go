package vignette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPAGain(t *testing.T) {
	t.Run("zero coefficients leave gain unchanged", func(t *testing.T) {
		p := PA{}
		gains := []float64{1, 1, 1}
		p.Gain([]float64{0, 0.5, 1}, gains, true)
		assert.InDeltaSlice(t, []float64{1, 1, 1}, gains, 1e-15)
	})

	t.Run("correct then simulate is identity", func(t *testing.T) {
		p := PA{K1: -0.5, K2: 0.1, K3: -0.02}
		r2 := []float64{0, 0.25, 0.64, 1, 1.69}
		gains := []float64{1, 1, 1, 1, 1}
		p.Gain(r2, gains, true)
		p.Gain(r2, gains, false)
		assert.InDeltaSlice(t, []float64{1, 1, 1, 1, 1}, gains, 1e-12)
	})

	t.Run("half falloff doubles the corrected pixel", func(t *testing.T) {
		// k1 = -0.5 at radius 1: the polynomial is 0.5, correction
		// divides, so a pixel brightens by 2x.
		p := PA{K1: -0.5}
		gains := []float64{1, 1}
		p.Gain([]float64{0, 1}, gains, true)
		assert.InDelta(t, 1.0, gains[0], 1e-15)
		assert.InDelta(t, 2.0, gains[1], 1e-15)
	})

	t.Run("wide matches scalar", func(t *testing.T) {
		p := PA{K1: -0.3, K2: 0.05, K3: -0.01}
		r2 := make([]float64, 11)
		for i := range r2 {
			r2[i] = float64(i) * 0.13
		}
		s := make([]float64, len(r2))
		w := make([]float64, len(r2))
		for i := range s {
			s[i], w[i] = 1, 1
		}
		p.Gain(r2, s, true)
		p.GainWide(r2, w, true)
		assert.InDeltaSlice(t, s, w, 1e-14)
	})
}

func TestACMGain(t *testing.T) {
	t.Run("correct multiplies by the polynomial", func(t *testing.T) {
		a := ACM{A1: 0.2}
		gains := []float64{1}
		a.Gain([]float64{1}, gains, true)
		assert.InDelta(t, 1.2, gains[0], 1e-15)
	})

	t.Run("simulate then correct is identity", func(t *testing.T) {
		a := ACM{A1: 0.2, A2: -0.05, A3: 0.01}
		r2 := []float64{0, 0.3, 0.9, 1.4}
		gains := []float64{1, 1, 1, 1}
		a.Gain(r2, gains, false)
		a.Gain(r2, gains, true)
		assert.InDeltaSlice(t, []float64{1, 1, 1, 1}, gains, 1e-12)
	})
}

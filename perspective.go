package rectify

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/lens_rectify/internal/persp"
)

// ErrNotInitialized reports a Modifier used before Initialize.
var ErrNotInitialized = errors.New("modifier not initialized")

// EnablePerspectiveCorrection adds a perspective-rectification
// callback built from 4, 5, 6, 7 or 8 control points given as
// interleaved (x, y) original-image pixel coordinates; distortion must
// already have been corrected out of them. d in [-1, +1] blends from
// identity (-1) through exact correction (0) to 25% over-correction
// (+1). Must be called after Initialize.
func (m *Modifier) EnablePerspectiveCorrection(points []float64, d float64) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	if len(points) < 8 || len(points)%2 != 0 {
		return fmt.Errorf("%w: %d coordinates", persp.ErrControlPoints, len(points))
	}

	norm := make([]float64, len(points))
	for i := 0; i+1 < len(points); i += 2 {
		norm[i] = m.toNormX(points[i])
		norm[i+1] = m.toNormY(points[i+1])
	}

	h, err := persp.Build(norm, d, m.normFocal)
	if err != nil {
		return err
	}
	if m.reverse {
		// Simulating: distort with the correction's inverse instead.
		inv, ok := h.Inverse()
		if !ok {
			return fmt.Errorf("%w: homography not invertible", persp.ErrControlPoints)
		}
		h = inv
	}

	m.addCoord(prioPerspective, func(pts []float64) { h.ApplyAll(pts) })
	return nil
}

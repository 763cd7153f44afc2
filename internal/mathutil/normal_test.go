package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The CDF must agree with the erf-based reference definition exactly.
func TestNormCDFMatchesErfReference(t *testing.T) {
	for _, x := range []float64{-8, -3.5, -1, -0.25, 0, 0.25, 1, 3.5, 8} {
		ref := 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
		assert.InDelta(t, ref, NormCDF(x), 1e-15, "x=%v", x)
	}
}

func TestNormCDFKnownValues(t *testing.T) {
	assert.InDelta(t, 0.5, NormCDF(0), 1e-15)
	assert.InDelta(t, 0.8413447460685429, NormCDF(1), 1e-12)
	assert.InDelta(t, 0.15865525393145705, NormCDF(-1), 1e-12)
	assert.InDelta(t, 0.9772498680518208, NormCDF(2), 1e-12)
}

func TestNormCDFSymmetry(t *testing.T) {
	for _, x := range []float64{0.1, 0.5, 1.3, 2.7} {
		assert.InDelta(t, 1.0, NormCDF(x)+NormCDF(-x), 1e-15)
	}
}

func TestNormPDF(t *testing.T) {
	// Peak at the origin is 1/sqrt(2*pi).
	assert.InDelta(t, 0.3989422804014327, NormPDF(0), 1e-15)
	for _, x := range []float64{-2, -0.7, 0.7, 2} {
		ref := math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
		assert.InDelta(t, ref, NormPDF(x), 1e-15, "x=%v", x)
		assert.InDelta(t, NormPDF(-x), NormPDF(x), 1e-15)
	}
}

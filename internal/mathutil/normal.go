// Package mathutil provides standard normal distribution functions used by
// the Black-Scholes pricing formulas.
//
// Design notes:
//   - Stateless, pure functions only
//   - Backed by gonum's distuv.UnitNormal, whose CDF is erf/erfc based and
//     therefore matches the textbook definition 0.5*(1+erf(x/sqrt(2)))
//     to floating-point precision
package mathutil

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// NormCDF returns the cumulative distribution function of the standard
// normal distribution at x, i.e. P(Z <= x) for Z ~ N(0, 1).
func NormCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormPDF returns the probability density of the standard normal
// distribution at x: exp(-x^2/2) / sqrt(2*pi).
func NormPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

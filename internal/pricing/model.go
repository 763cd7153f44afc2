// Package pricing implements closed-form European option valuation under
// the Black-Scholes model, together with the associated risk sensitivities
// (the Greeks).
//
// Design notes:
//   - Model is an immutable value: validated once at construction, then
//     safe for arithmetic forever
//   - d1/d2 and prices are recomputed on every call (no caching, no
//     staleness; each is O(1))
//   - Failures surface as typed errors, never as NaN sentinels
package pricing

import (
	"fmt"
	"math"

	"github.com/contactkeval/optistrat/internal/mathutil"
)

// Volatility above 1000% or maturity beyond 100 years is treated as a
// caller mistake rather than a market scenario.
const (
	maxVolatility = 10.0
	maxMaturity   = 100.0

	// Below this, sigma*sqrt(T) division is numerically meaningless.
	degenerateEps = 1e-10
)

// Model holds the five Black-Scholes inputs for one European option.
//
// Construct it with New; a Model obtained any other way may violate the
// domain constraints and produce garbage.
type Model struct {
	strike     float64 // K, option strike price
	volatility float64 // sigma, annualized
	rate       float64 // r, continuously compounded risk-free rate
	maturity   float64 // T, years to expiration
	spot       float64 // S, current underlying price
}

// New validates the five inputs and returns a Model.
//
// Parameters:
//   - strike: K, must be strictly positive
//   - volatility: sigma, must be in [0, 10]
//   - rate: r, any finite real
//   - maturity: T in years, must be in (0, 100]
//   - spot: S, must be strictly positive
//
// Returns:
//   - Model: ready for pricing queries
//   - error: wraps ErrInvalidParameter naming the offending input
func New(strike, volatility, rate, maturity, spot float64) (Model, error) {
	inputs := []struct {
		name  string
		value float64
	}{
		{"strike", strike},
		{"volatility", volatility},
		{"rate", rate},
		{"maturity", maturity},
		{"spot", spot},
	}
	for _, in := range inputs {
		if math.IsNaN(in.value) || math.IsInf(in.value, 0) {
			return Model{}, fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParameter, in.name, in.value)
		}
	}
	if strike <= 0 {
		return Model{}, fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidParameter, strike)
	}
	if volatility < 0 {
		return Model{}, fmt.Errorf("%w: volatility must be non-negative, got %g", ErrInvalidParameter, volatility)
	}
	if volatility > maxVolatility {
		return Model{}, fmt.Errorf("%w: volatility above %g (>1000%%) is implausible, got %g", ErrInvalidParameter, maxVolatility, volatility)
	}
	if maturity <= 0 {
		return Model{}, fmt.Errorf("%w: maturity must be positive, got %g", ErrInvalidParameter, maturity)
	}
	if maturity > maxMaturity {
		return Model{}, fmt.Errorf("%w: maturity above %g years is implausible, got %g", ErrInvalidParameter, maxMaturity, maturity)
	}
	if spot <= 0 {
		return Model{}, fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidParameter, spot)
	}

	return Model{
		strike:     strike,
		volatility: volatility,
		rate:       rate,
		maturity:   maturity,
		spot:       spot,
	}, nil
}

// Strike returns K.
func (m Model) Strike() float64 { return m.strike }

// Volatility returns sigma.
func (m Model) Volatility() float64 { return m.volatility }

// Rate returns r.
func (m Model) Rate() float64 { return m.rate }

// Maturity returns T in years.
func (m Model) Maturity() float64 { return m.maturity }

// Spot returns S.
func (m Model) Spot() float64 { return m.spot }

// D1 computes (ln(S/K) + (r + sigma^2/2)*T) / (sigma*sqrt(T)).
//
// Returns:
//   - float64: d1
//   - error: wraps ErrDegenerateInput when sigma or T is below 1e-10;
//     the zero-vol/zero-time limit is intrinsic value, not a d1
func (m Model) D1() (float64, error) {
	if m.volatility < degenerateEps || m.maturity < degenerateEps {
		return 0, fmt.Errorf("%w: sigma=%g T=%g below %g", ErrDegenerateInput, m.volatility, m.maturity, degenerateEps)
	}
	volSqrtT := m.volatility * math.Sqrt(m.maturity)
	return (math.Log(m.spot/m.strike) + (m.rate+0.5*m.volatility*m.volatility)*m.maturity) / volSqrtT, nil
}

// D2 computes d1 - sigma*sqrt(T). Degenerate-input failures from D1
// propagate unchanged.
func (m Model) D2() (float64, error) {
	d1, err := m.D1()
	if err != nil {
		return 0, err
	}
	return d1 - m.volatility*math.Sqrt(m.maturity), nil
}

// discountFactor returns e^(-r*T), rejecting non-finite results from
// extreme r*T instead of letting them corrupt a price.
func (m Model) discountFactor() (float64, error) {
	df := math.Exp(-m.rate * m.maturity)
	if math.IsInf(df, 0) || math.IsNaN(df) {
		return 0, fmt.Errorf("%w: discount factor e^(-r*T) non-finite for r=%g T=%g", ErrNumerical, m.rate, m.maturity)
	}
	return df, nil
}

// CallPrice returns the Black-Scholes value of a European call:
// S*CDF(d1) - K*e^(-r*T)*CDF(d2).
func (m Model) CallPrice() (float64, error) {
	d1, err := m.D1()
	if err != nil {
		return 0, err
	}
	d2, err := m.D2()
	if err != nil {
		return 0, err
	}
	df, err := m.discountFactor()
	if err != nil {
		return 0, err
	}
	return m.spot*mathutil.NormCDF(d1) - m.strike*df*mathutil.NormCDF(d2), nil
}

// PutPrice returns the Black-Scholes value of a European put:
// K*e^(-r*T)*CDF(-d2) - S*CDF(-d1).
func (m Model) PutPrice() (float64, error) {
	d1, err := m.D1()
	if err != nil {
		return 0, err
	}
	d2, err := m.D2()
	if err != nil {
		return 0, err
	}
	df, err := m.discountFactor()
	if err != nil {
		return 0, err
	}
	return m.strike*df*mathutil.NormCDF(-d2) - m.spot*mathutil.NormCDF(-d1), nil
}

package pricing

import (
	"math"

	"github.com/contactkeval/optistrat/internal/mathutil"
)

//
// ==========================
// Greeks
// ==========================
//

// Greeks computes risk sensitivities for the option described by a Model.
//
// The Model is held by value, so the parameters backing d1/d2 cannot
// change between construction and any query: every Greek read from one
// Greeks instance describes the same market moment.
//
// Scaling conventions:
//   - vega is per one-percentage-point change in volatility (/100)
//   - theta is per calendar day of decay (/365)
//   - rho is per one-percentage-point change in the rate (/100)
type Greeks struct {
	model Model
}

// NewGreeks wraps a model for Greek queries.
func NewGreeks(m Model) Greeks {
	return Greeks{model: m}
}

// Model returns the wrapped model.
func (g Greeks) Model() Model { return g.model }

// CallDelta returns CDF(d1), the call price sensitivity to spot.
func (g Greeks) CallDelta() (float64, error) {
	d1, err := g.model.D1()
	if err != nil {
		return 0, err
	}
	return mathutil.NormCDF(d1), nil
}

// PutDelta returns CDF(d1) - 1.
func (g Greeks) PutDelta() (float64, error) {
	d1, err := g.model.D1()
	if err != nil {
		return 0, err
	}
	return mathutil.NormCDF(d1) - 1.0, nil
}

// Gamma returns PDF(d1) / (S*sigma*sqrt(T)). Identical for calls and puts.
func (g Greeks) Gamma() (float64, error) {
	d1, err := g.model.D1()
	if err != nil {
		return 0, err
	}
	m := g.model
	return mathutil.NormPDF(d1) / (m.Spot() * m.Volatility() * math.Sqrt(m.Maturity())), nil
}

// Vega returns S*PDF(d1)*sqrt(T) / 100, the price change per
// one-percentage-point move in volatility. Identical for calls and puts.
func (g Greeks) Vega() (float64, error) {
	d1, err := g.model.D1()
	if err != nil {
		return 0, err
	}
	m := g.model
	return m.Spot() * mathutil.NormPDF(d1) * math.Sqrt(m.Maturity()) / 100.0, nil
}

// CallTheta returns the call's time decay per calendar day:
// [-S*PDF(d1)*sigma/(2*sqrt(T)) - r*K*e^(-r*T)*CDF(d2)] / 365.
func (g Greeks) CallTheta() (float64, error) {
	d1, err := g.model.D1()
	if err != nil {
		return 0, err
	}
	d2, err := g.model.D2()
	if err != nil {
		return 0, err
	}
	df, err := g.model.discountFactor()
	if err != nil {
		return 0, err
	}
	m := g.model
	term1 := -(m.Spot() * mathutil.NormPDF(d1) * m.Volatility()) / (2.0 * math.Sqrt(m.Maturity()))
	term2 := -m.Rate() * m.Strike() * df * mathutil.NormCDF(d2)
	return (term1 + term2) / 365.0, nil
}

// PutTheta returns the put's time decay per calendar day:
// [-S*PDF(d1)*sigma/(2*sqrt(T)) + r*K*e^(-r*T)*CDF(-d2)] / 365.
func (g Greeks) PutTheta() (float64, error) {
	d1, err := g.model.D1()
	if err != nil {
		return 0, err
	}
	d2, err := g.model.D2()
	if err != nil {
		return 0, err
	}
	df, err := g.model.discountFactor()
	if err != nil {
		return 0, err
	}
	m := g.model
	term1 := -(m.Spot() * mathutil.NormPDF(d1) * m.Volatility()) / (2.0 * math.Sqrt(m.Maturity()))
	term2 := m.Rate() * m.Strike() * df * mathutil.NormCDF(-d2)
	return (term1 + term2) / 365.0, nil
}

// CallRho returns K*T*e^(-r*T)*CDF(d2) / 100, the call price change per
// one-percentage-point move in the risk-free rate.
func (g Greeks) CallRho() (float64, error) {
	d2, err := g.model.D2()
	if err != nil {
		return 0, err
	}
	df, err := g.model.discountFactor()
	if err != nil {
		return 0, err
	}
	m := g.model
	return m.Strike() * m.Maturity() * df * mathutil.NormCDF(d2) / 100.0, nil
}

// PutRho returns -K*T*e^(-r*T)*CDF(-d2) / 100.
func (g Greeks) PutRho() (float64, error) {
	d2, err := g.model.D2()
	if err != nil {
		return 0, err
	}
	df, err := g.model.discountFactor()
	if err != nil {
		return 0, err
	}
	m := g.model
	return -m.Strike() * m.Maturity() * df * mathutil.NormCDF(-d2) / 100.0, nil
}

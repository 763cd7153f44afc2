package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustModel(t *testing.T, k, sigma, r, T, s float64) Model {
	t.Helper()
	m, err := New(k, sigma, r, T, s)
	require.NoError(t, err)
	return m
}

func TestNewRejectsOutOfDomainInputs(t *testing.T) {
	cases := []struct {
		name                string
		k, sigma, r, T, spot float64
	}{
		{"zero strike", 0, 0.2, 0.05, 1, 100},
		{"negative strike", -5, 0.2, 0.05, 1, 100},
		{"negative vol", 100, -0.1, 0.05, 1, 100},
		{"implausible vol", 100, 11, 0.05, 1, 100},
		{"zero maturity", 100, 0.2, 0.05, 0, 100},
		{"implausible maturity", 100, 0.2, 0.05, 101, 100},
		{"zero spot", 100, 0.2, 0.05, 1, 0},
		{"nan strike", math.NaN(), 0.2, 0.05, 1, 100},
		{"nan rate", 100, 0.2, math.NaN(), 1, 100},
		{"inf spot", 100, 0.2, 0.05, 1, math.Inf(1)},
		{"neg inf rate", 100, 0.2, math.Inf(-1), 1, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.k, tc.sigma, tc.r, tc.T, tc.spot)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestNewAcceptsBoundaryValidInputs(t *testing.T) {
	// sigma = 0 and negative rates are within the model's domain; only
	// d1/d2 reject the degenerate cases.
	_, err := New(100, 0, -0.02, 1, 100)
	assert.NoError(t, err)
	_, err = New(100, 10, 0.05, 100, 100)
	assert.NoError(t, err)
}

func TestGettersRoundTrip(t *testing.T) {
	m := mustModel(t, 110, 0.25, 0.03, 0.5, 95)
	assert.Equal(t, 110.0, m.Strike())
	assert.Equal(t, 0.25, m.Volatility())
	assert.Equal(t, 0.03, m.Rate())
	assert.Equal(t, 0.5, m.Maturity())
	assert.Equal(t, 95.0, m.Spot())
}

func TestD1D2Reference(t *testing.T) {
	// ATM with K=S=100, sigma=0.2, r=0.05, T=1:
	// d1 = (0 + 0.07)/0.2 = 0.35, d2 = 0.15.
	m := mustModel(t, 100, 0.2, 0.05, 1, 100)
	d1, err := m.D1()
	require.NoError(t, err)
	assert.InDelta(t, 0.35, d1, 1e-12)
	d2, err := m.D2()
	require.NoError(t, err)
	assert.InDelta(t, 0.15, d2, 1e-12)
}

func TestD1DegenerateVolAndMaturity(t *testing.T) {
	m := mustModel(t, 100, 1e-12, 0.05, 1, 100)
	_, err := m.D1()
	assert.ErrorIs(t, err, ErrDegenerateInput)

	m = mustModel(t, 100, 0.2, 0.05, 1e-12, 100)
	_, err = m.D2()
	assert.ErrorIs(t, err, ErrDegenerateInput)

	// Prices propagate the degenerate failure unchanged.
	_, err = m.CallPrice()
	assert.ErrorIs(t, err, ErrDegenerateInput)
	_, err = m.PutPrice()
	assert.ErrorIs(t, err, ErrDegenerateInput)
}

func TestPricingRejectsNonFiniteDiscountFactor(t *testing.T) {
	// r = -10 over 100 years makes e^(-r*T) = e^1000 overflow.
	m := mustModel(t, 100, 0.2, -10, 100, 100)
	_, err := m.CallPrice()
	assert.ErrorIs(t, err, ErrNumerical)
	_, err = m.PutPrice()
	assert.ErrorIs(t, err, ErrNumerical)
}

func TestReferencePrices(t *testing.T) {
	// Canonical textbook scenario.
	m := mustModel(t, 100, 0.2, 0.05, 1, 100)
	call, err := m.CallPrice()
	require.NoError(t, err)
	assert.InDelta(t, 10.4506, call, 1e-3)

	put, err := m.PutPrice()
	require.NoError(t, err)
	assert.InDelta(t, 5.5735, put, 1e-3)
}

func TestPutCallParity(t *testing.T) {
	cases := []struct {
		k, sigma, r, T, spot float64
	}{
		{100, 0.2, 0.05, 1, 100},
		{90, 0.35, 0.01, 0.25, 105},
		{120, 0.5, -0.01, 2, 80},
		{50, 0.15, 0.1, 5, 60},
	}
	for _, tc := range cases {
		m := mustModel(t, tc.k, tc.sigma, tc.r, tc.T, tc.spot)
		call, err := m.CallPrice()
		require.NoError(t, err)
		put, err := m.PutPrice()
		require.NoError(t, err)

		lhs := call - put
		rhs := tc.spot - tc.k*math.Exp(-tc.r*tc.T)
		assert.InEpsilon(t, rhs, lhs, 1e-8, "K=%v sigma=%v r=%v T=%v S=%v", tc.k, tc.sigma, tc.r, tc.T, tc.spot)
	}
}

func TestCallPriceMonotoneInSpotAndVol(t *testing.T) {
	prev := -math.MaxFloat64
	for spot := 60.0; spot <= 140.0; spot += 10 {
		m := mustModel(t, 100, 0.2, 0.05, 1, spot)
		call, err := m.CallPrice()
		require.NoError(t, err)
		assert.Greater(t, call, prev, "spot=%v", spot)
		prev = call
	}

	prev = -math.MaxFloat64
	for sigma := 0.05; sigma <= 0.85; sigma += 0.1 {
		m := mustModel(t, 100, sigma, 0.05, 1, 100)
		call, err := m.CallPrice()
		require.NoError(t, err)
		assert.Greater(t, call, prev, "sigma=%v", sigma)
		prev = call
	}
}

func TestPutPriceMonotoneInStrike(t *testing.T) {
	prev := -math.MaxFloat64
	for k := 60.0; k <= 140.0; k += 10 {
		m := mustModel(t, k, 0.2, 0.05, 1, 100)
		put, err := m.PutPrice()
		require.NoError(t, err)
		assert.Greater(t, put, prev, "strike=%v", k)
		prev = put
	}
}

// Package strategy composes option legs into multi-leg strategies and
// aggregates their value, Greeks, and expiration payoff.
//
// Responsibilities:
//   - Represent individual legs (type, direction, quantity, strike)
//   - Price every leg under one shared market context
//   - Sum leg results with the long/short sign applied exactly once
//
// Design notes:
//   - A per-leg pricing model is rebuilt inside every aggregation call;
//     nothing is cached between queries, so there is no invalidation to
//     get wrong
//   - An invalid leg strike surfaces when the strategy is valued, not
//     when the leg is added
//   - Build-then-freeze-then-query: AddPosition must not race with the
//     read methods; distinct Strategy instances are independent
package strategy

import (
	"errors"
	"fmt"
	"math"

	"github.com/contactkeval/optistrat/internal/pricing"
)

//
// ==========================
// Error taxonomy
// ==========================
//

var (
	// ErrStrategyConstraint marks a preset-specific ordering violation,
	// such as a strangle whose put strike is not below its call strike.
	ErrStrategyConstraint = errors.New("strategy constraint violated")

	// ErrInvalidPosition marks a leg whose fields cannot be interpreted,
	// such as an unknown option type or a negative expiry spot query.
	ErrInvalidPosition = errors.New("invalid position")
)

//
// ==========================
// Domain Types
// ==========================
//

// OptionType distinguishes calls from puts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Valid reports whether the option type is one of the two known kinds.
func (ot OptionType) Valid() bool { return ot == Call || ot == Put }

// Direction distinguishes bought (long) from written (short) legs.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Valid reports whether the direction is one of the two known kinds.
func (d Direction) Valid() bool { return d == Long || d == Short }

// sign is the single place direction affects arithmetic: +1 for long,
// -1 for short. Every aggregation method goes through it.
func (d Direction) sign() float64 {
	if d == Short {
		return -1.0
	}
	return 1.0
}

// Position is one option leg inside a strategy. Quantity is a
// non-negative magnitude; direction carries the sign.
type Position struct {
	Type      OptionType `json:"type"`
	Direction Direction  `json:"direction"`
	Quantity  float64    `json:"quantity"`
	Strike    float64    `json:"strike"`
}

// GreekTotals holds quantity- and sign-weighted sums of the five Greeks
// across all legs of a strategy.
type GreekTotals struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// Strategy is an ordered collection of positions on one underlying with
// one maturity, priced under a shared market context.
type Strategy struct {
	spot       float64
	volatility float64
	rate       float64
	maturity   float64
	name       string
	positions  []Position
}

// New creates an empty strategy with the shared market context.
//
// Market parameters are not validated here; they are checked by the
// per-leg model construction the first time the strategy is valued.
func New(spot, volatility, rate, maturity float64, name string) *Strategy {
	return &Strategy{
		spot:       spot,
		volatility: volatility,
		rate:       rate,
		maturity:   maturity,
		name:       name,
	}
}

// AddPosition appends a leg. Strike validity is enforced lazily by the
// valuation methods, matching the per-leg model contract.
func (s *Strategy) AddPosition(typ OptionType, dir Direction, quantity, strike float64) {
	s.positions = append(s.positions, Position{
		Type:      typ,
		Direction: dir,
		Quantity:  quantity,
		Strike:    strike,
	})
}

// Positions returns a copy of the legs in insertion order.
func (s *Strategy) Positions() []Position {
	out := make([]Position, len(s.positions))
	copy(out, s.positions)
	return out
}

// Name returns the strategy's display label.
func (s *Strategy) Name() string { return s.name }

// Spot returns the shared underlying price.
func (s *Strategy) Spot() float64 { return s.spot }

// Volatility returns the shared volatility.
func (s *Strategy) Volatility() float64 { return s.volatility }

// Rate returns the shared risk-free rate.
func (s *Strategy) Rate() float64 { return s.rate }

// Maturity returns the shared time to maturity in years.
func (s *Strategy) Maturity() float64 { return s.maturity }

// legModel builds the pricing model for one leg under the shared
// market context.
func (s *Strategy) legModel(pos Position) (pricing.Model, error) {
	m, err := pricing.New(pos.Strike, s.volatility, s.rate, s.maturity, s.spot)
	if err != nil {
		return pricing.Model{}, fmt.Errorf("leg %s %s K=%g: %w", pos.Direction, pos.Type, pos.Strike, err)
	}
	return m, nil
}

//
// ==========================
// Per-leg helpers
// ==========================
//

func legPrice(m pricing.Model, typ OptionType) (float64, error) {
	if typ == Put {
		return m.PutPrice()
	}
	return m.CallPrice()
}

func legDelta(g pricing.Greeks, typ OptionType) (float64, error) {
	if typ == Put {
		return g.PutDelta()
	}
	return g.CallDelta()
}

func legTheta(g pricing.Greeks, typ OptionType) (float64, error) {
	if typ == Put {
		return g.PutTheta()
	}
	return g.CallTheta()
}

func legRho(g pricing.Greeks, typ OptionType) (float64, error) {
	if typ == Put {
		return g.PutRho()
	}
	return g.CallRho()
}

// checkPosition rejects legs whose enums cannot be interpreted before
// any arithmetic runs.
func checkPosition(i int, pos Position) error {
	if !pos.Type.Valid() {
		return fmt.Errorf("%w: leg %d has unknown option type %q", ErrInvalidPosition, i+1, pos.Type)
	}
	if !pos.Direction.Valid() {
		return fmt.Errorf("%w: leg %d has unknown direction %q", ErrInvalidPosition, i+1, pos.Direction)
	}
	return nil
}

//
// ==========================
// Aggregation
// ==========================
//

// TotalValue prices every leg under the shared market context and
// returns the signed, quantity-weighted sum.
//
// Returns:
//   - float64: aggregate strategy value
//   - error: the first leg failure; nothing is partially summed
func (s *Strategy) TotalValue() (float64, error) {
	total := 0.0
	for i, pos := range s.positions {
		if err := checkPosition(i, pos); err != nil {
			return 0, err
		}
		m, err := s.legModel(pos)
		if err != nil {
			return 0, err
		}
		value, err := legPrice(m, pos.Type)
		if err != nil {
			return 0, err
		}
		total += pos.Direction.sign() * value * pos.Quantity
	}
	return total, nil
}

// TotalDelta returns the signed, quantity-weighted sum of per-leg deltas.
func (s *Strategy) TotalDelta() (float64, error) {
	total := 0.0
	for i, pos := range s.positions {
		if err := checkPosition(i, pos); err != nil {
			return 0, err
		}
		m, err := s.legModel(pos)
		if err != nil {
			return 0, err
		}
		delta, err := legDelta(pricing.NewGreeks(m), pos.Type)
		if err != nil {
			return 0, err
		}
		total += pos.Direction.sign() * delta * pos.Quantity
	}
	return total, nil
}

// TotalGreeks aggregates all five Greeks across the legs, weighted by
// quantity and signed by direction. Delta, theta, and rho use the
// call/put-specific forms; gamma and vega are shared.
func (s *Strategy) TotalGreeks() (GreekTotals, error) {
	var totals GreekTotals
	for i, pos := range s.positions {
		if err := checkPosition(i, pos); err != nil {
			return GreekTotals{}, err
		}
		m, err := s.legModel(pos)
		if err != nil {
			return GreekTotals{}, err
		}
		g := pricing.NewGreeks(m)

		delta, err := legDelta(g, pos.Type)
		if err != nil {
			return GreekTotals{}, err
		}
		theta, err := legTheta(g, pos.Type)
		if err != nil {
			return GreekTotals{}, err
		}
		rho, err := legRho(g, pos.Type)
		if err != nil {
			return GreekTotals{}, err
		}
		gamma, err := g.Gamma()
		if err != nil {
			return GreekTotals{}, err
		}
		vega, err := g.Vega()
		if err != nil {
			return GreekTotals{}, err
		}

		w := pos.Direction.sign() * pos.Quantity
		totals.Delta += w * delta
		totals.Gamma += w * gamma
		totals.Vega += w * vega
		totals.Theta += w * theta
		totals.Rho += w * rho
	}
	return totals, nil
}

// PayoffAtExpiration returns the strategy's intrinsic value at a given
// expiry spot: max(S_T-K, 0) per call leg, max(K-S_T, 0) per put leg,
// signed and quantity-weighted. No pricing model is built, so the result
// is independent of volatility and rate.
func (s *Strategy) PayoffAtExpiration(spotAtExpiry float64) (float64, error) {
	if spotAtExpiry < 0 || math.IsNaN(spotAtExpiry) || math.IsInf(spotAtExpiry, 0) {
		return 0, fmt.Errorf("%w: expiry spot must be a finite non-negative number, got %v", ErrInvalidPosition, spotAtExpiry)
	}
	total := 0.0
	for i, pos := range s.positions {
		if err := checkPosition(i, pos); err != nil {
			return 0, err
		}
		var intrinsic float64
		if pos.Type == Put {
			intrinsic = math.Max(pos.Strike-spotAtExpiry, 0)
		} else {
			intrinsic = math.Max(spotAtExpiry-pos.Strike, 0)
		}
		total += pos.Direction.sign() * intrinsic * pos.Quantity
	}
	return total, nil
}

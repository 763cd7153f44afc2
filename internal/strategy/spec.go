// Strategy specs: a JSON-friendly description of a multi-leg strategy
// whose strikes may be expressions rather than literals.
//
// Supported strike formats:
//   - "105"            literal strike
//   - "ATM"            the shared spot, rounded to cents
//   - "ATM:+10"        absolute offset from spot
//   - "ATM:-5%"        percentage offset from spot
//   - "{LEG1.STRIKE}+5" arithmetic over previously resolved legs
//
// Leg expressions are evaluated with govaluate after substituting the
// referenced values, so any arithmetic the evaluator accepts is allowed.
package strategy

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// Typed errors allow callers and tests to detect failure categories
// without string matching.
var (
	ErrInvalidStrikeExpression = errors.New("invalid strike expression")
	ErrLegIndexOutOfRange      = errors.New("leg index out of range")
)

// LegSpec defines a single option leg as provided by the user or
// strategy JSON. It represents intent, not resolved values.
type LegSpec struct {
	Side       string  `json:"side,omitempty"`        // long or short (default: long)
	OptionType string  `json:"option_type,omitempty"` // call or put (default: call)
	Strike     string  `json:"strike"`                // literal, ATM rule, or leg expression
	Quantity   float64 `json:"qty,omitempty"`         // contract count (default: 1)
}

// Spec defines a multi-leg option strategy plus its shared market
// context, ready to be decoded from JSON and built into a Strategy.
type Spec struct {
	Name       string    `json:"name,omitempty"`
	Spot       float64   `json:"spot"`
	Volatility float64   `json:"volatility"`
	Rate       float64   `json:"rate"`
	Maturity   float64   `json:"maturity"` // years
	Legs       []LegSpec `json:"strategy"`
}

// Build resolves every leg's strike and returns the populated Strategy.
//
// Strikes are resolved in leg order, so an expression may reference any
// earlier leg but not a later one.
//
// Returns:
//   - *Strategy: ready for valuation queries
//   - error: if any leg's side, type, or strike cannot be resolved
func (sp Spec) Build() (*Strategy, error) {
	name := sp.Name
	if name == "" {
		name = "Custom"
	}
	s := New(sp.Spot, sp.Volatility, sp.Rate, sp.Maturity, name)

	for i, leg := range sp.Legs {
		dir, err := parseDirection(leg.Side)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}
		typ, err := parseOptionType(leg.OptionType)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}

		strike, err := ResolveStrike(leg.Strike, sp.Spot, s.Positions())
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}

		qty := leg.Quantity
		if qty == 0 {
			qty = 1
		}
		s.AddPosition(typ, dir, qty, strike)
	}
	return s, nil
}

func parseDirection(side string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "", "long", "buy":
		return Long, nil
	case "short", "sell":
		return Short, nil
	default:
		return "", fmt.Errorf("%w: unknown side %q", ErrInvalidPosition, side)
	}
}

func parseOptionType(typ string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "call":
		return Call, nil
	case "put":
		return Put, nil
	default:
		return "", fmt.Errorf("%w: unknown option type %q", ErrInvalidPosition, typ)
	}
}

//
// ==========================
// Strike Resolution
// ==========================
//

var legRefRe = regexp.MustCompile(`\{LEG(\d+)\.(STRIKE|QTY)\}`)

// ResolveStrike converts a strike expression into a concrete strike.
//
// Parameters:
//   - strikeExpr: literal, ATM rule, or leg expression
//   - spot: the strategy's shared underlying price
//   - legs: previously resolved legs, for {LEGn.*} references
//
// Returns:
//   - float64: resolved strike price
//   - error: wraps ErrInvalidStrikeExpression or ErrLegIndexOutOfRange
func ResolveStrike(strikeExpr string, spot float64, legs []Position) (float64, error) {
	strikeExpr = strings.TrimSpace(strings.ToUpper(strikeExpr))
	if strikeExpr == "" {
		return 0, fmt.Errorf("%w: empty strike", ErrInvalidStrikeExpression)
	}

	if strikeExpr == "ATM" {
		return roundCents(spot), nil
	}

	if strings.HasPrefix(strikeExpr, "ATM:") {
		return resolveATMOffset(strikeExpr[len("ATM:"):], spot)
	}

	if strings.Contains(strikeExpr, "{LEG") {
		return evaluateLegExpression(strikeExpr, legs)
	}

	k, err := strconv.ParseFloat(strikeExpr, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidStrikeExpression, strikeExpr)
	}
	return k, nil
}

// resolveATMOffset applies an absolute or percentage offset to the spot.
func resolveATMOffset(offset string, spot float64) (float64, error) {
	if strings.HasSuffix(offset, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(offset, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: ATM:%s", ErrInvalidStrikeExpression, offset)
		}
		return roundCents(spot + spot*pct/100), nil
	}

	abs, err := strconv.ParseFloat(offset, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: ATM:%s", ErrInvalidStrikeExpression, offset)
	}
	return roundCents(spot + abs), nil
}

// evaluateLegExpression evaluates expressions referencing prior legs,
// e.g. "{LEG1.STRIKE}+5".
func evaluateLegExpression(expr string, legs []Position) (float64, error) {
	matches := legRefRe.FindAllStringSubmatch(expr, -1)
	if matches == nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidStrikeExpression, expr)
	}

	evalStr := expr
	for _, match := range matches {
		idx, _ := strconv.Atoi(match[1])
		idx-- // LEG1 refers to index 0

		if idx < 0 || idx >= len(legs) {
			return 0, fmt.Errorf("%w: %s", ErrLegIndexOutOfRange, match[0])
		}

		var value float64
		if match[2] == "STRIKE" {
			value = legs[idx].Strike
		} else {
			value = legs[idx].Quantity
		}
		evalStr = strings.Replace(evalStr, match[0], strconv.FormatFloat(value, 'f', -1, 64), 1)
	}

	evalExpr, err := govaluate.NewEvaluableExpression(evalStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidStrikeExpression, expr, err)
	}
	result, err := evalExpr.Evaluate(nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidStrikeExpression, expr, err)
	}

	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s evaluated to non-numeric %v", ErrInvalidStrikeExpression, expr, result)
	}
	return f, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

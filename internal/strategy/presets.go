package strategy

import "fmt"

//
// ==========================
// Strategy presets
// ==========================
//

// Presets are plain factory functions: each differs only in the leg set
// it seeds, so there is no behavioral subtype hierarchy.

// LongCall seeds a single bought call at strike k.
func LongCall(spot, volatility, rate, maturity, k, qty float64) *Strategy {
	s := New(spot, volatility, rate, maturity, "Long Call")
	s.AddPosition(Call, Long, qty, k)
	return s
}

// ShortCall seeds a single written call at strike k.
func ShortCall(spot, volatility, rate, maturity, k, qty float64) *Strategy {
	s := New(spot, volatility, rate, maturity, "Short Call")
	s.AddPosition(Call, Short, qty, k)
	return s
}

// LongPut seeds a single bought put at strike k.
func LongPut(spot, volatility, rate, maturity, k, qty float64) *Strategy {
	s := New(spot, volatility, rate, maturity, "Long Put")
	s.AddPosition(Put, Long, qty, k)
	return s
}

// ShortPut seeds a single written put at strike k.
func ShortPut(spot, volatility, rate, maturity, k, qty float64) *Strategy {
	s := New(spot, volatility, rate, maturity, "Short Put")
	s.AddPosition(Put, Short, qty, k)
	return s
}

// LongStraddle buys a call and a put at the same strike.
func LongStraddle(spot, volatility, rate, maturity, k, qty float64) *Strategy {
	s := New(spot, volatility, rate, maturity, "Long Straddle")
	s.AddPosition(Call, Long, qty, k)
	s.AddPosition(Put, Long, qty, k)
	return s
}

// ShortStraddle writes a call and a put at the same strike.
func ShortStraddle(spot, volatility, rate, maturity, k, qty float64) *Strategy {
	s := New(spot, volatility, rate, maturity, "Short Straddle")
	s.AddPosition(Call, Short, qty, k)
	s.AddPosition(Put, Short, qty, k)
	return s
}

// LongStrangle buys an OTM put below an OTM call.
//
// Returns an error wrapping ErrStrategyConstraint unless
// putStrike < callStrike.
func LongStrangle(spot, volatility, rate, maturity, putStrike, callStrike, qty float64) (*Strategy, error) {
	if putStrike >= callStrike {
		return nil, fmt.Errorf("%w: strangle requires put strike < call strike, got put=%g call=%g", ErrStrategyConstraint, putStrike, callStrike)
	}
	s := New(spot, volatility, rate, maturity, "Long Strangle")
	s.AddPosition(Put, Long, qty, putStrike)
	s.AddPosition(Call, Long, qty, callStrike)
	return s, nil
}

// ShortStrangle writes an OTM put below an OTM call.
//
// Returns an error wrapping ErrStrategyConstraint unless
// putStrike < callStrike.
func ShortStrangle(spot, volatility, rate, maturity, putStrike, callStrike, qty float64) (*Strategy, error) {
	if putStrike >= callStrike {
		return nil, fmt.Errorf("%w: strangle requires put strike < call strike, got put=%g call=%g", ErrStrategyConstraint, putStrike, callStrike)
	}
	s := New(spot, volatility, rate, maturity, "Short Strangle")
	s.AddPosition(Put, Short, qty, putStrike)
	s.AddPosition(Call, Short, qty, callStrike)
	return s, nil
}

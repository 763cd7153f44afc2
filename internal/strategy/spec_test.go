package strategy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStrikeLiteralAndATM(t *testing.T) {
	k, err := ResolveStrike("105", 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 105.0, k)

	k, err = ResolveStrike("atm", 100.004, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, k)

	k, err = ResolveStrike("ATM:+10", 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 110.0, k)

	k, err = ResolveStrike("ATM:-5%", 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 95.0, k)
}

func TestResolveStrikeLegExpressions(t *testing.T) {
	legs := []Position{
		{Type: Put, Direction: Long, Quantity: 2, Strike: 90},
	}

	k, err := ResolveStrike("{LEG1.STRIKE}+20", 100, legs)
	require.NoError(t, err)
	assert.Equal(t, 110.0, k)

	k, err = ResolveStrike("{LEG1.STRIKE}*1.1", 100, legs)
	require.NoError(t, err)
	assert.InDelta(t, 99.0, k, 1e-12)

	_, err = ResolveStrike("{LEG2.STRIKE}+5", 100, legs)
	assert.ErrorIs(t, err, ErrLegIndexOutOfRange)
}

func TestResolveStrikeRejectsGarbage(t *testing.T) {
	for _, expr := range []string{"", "banana", "ATM:x", "ATM:5%%", "{LEG.STRIKE}"} {
		_, err := ResolveStrike(expr, 100, nil)
		assert.ErrorIs(t, err, ErrInvalidStrikeExpression, "expr=%q", expr)
	}
}

func TestSpecBuildIronCondorFromJSON(t *testing.T) {
	raw := `{
		"name": "Iron Condor",
		"spot": 100,
		"volatility": 0.2,
		"rate": 0.05,
		"maturity": 0.25,
		"strategy": [
			{"side": "long",  "option_type": "put",  "strike": "ATM:-15"},
			{"side": "short", "option_type": "put",  "strike": "{LEG1.STRIKE}+5"},
			{"side": "short", "option_type": "call", "strike": "ATM:+10"},
			{"side": "long",  "option_type": "call", "strike": "{LEG3.STRIKE}+5"}
		]
	}`

	var sp Spec
	require.NoError(t, json.Unmarshal([]byte(raw), &sp))

	s, err := sp.Build()
	require.NoError(t, err)
	assert.Equal(t, "Iron Condor", s.Name())

	positions := s.Positions()
	require.Len(t, positions, 4)
	assert.Equal(t, 85.0, positions[0].Strike)
	assert.Equal(t, 90.0, positions[1].Strike)
	assert.Equal(t, 110.0, positions[2].Strike)
	assert.Equal(t, 115.0, positions[3].Strike)
	// Defaulted quantity
	assert.Equal(t, 1.0, positions[0].Quantity)

	// Condor payoff between the short strikes is zero net of wings.
	payoff, err := s.PayoffAtExpiration(100)
	require.NoError(t, err)
	assert.InDelta(t, 0, payoff, 1e-12)

	v, err := s.TotalValue()
	require.NoError(t, err)
	// Net credit structure: short legs are nearer the money.
	assert.Negative(t, v)
}

func TestSpecBuildDefaultsAndErrors(t *testing.T) {
	sp := Spec{
		Spot: 100, Volatility: 0.2, Rate: 0.05, Maturity: 1,
		Legs: []LegSpec{{Strike: "ATM"}},
	}
	s, err := sp.Build()
	require.NoError(t, err)
	assert.Equal(t, "Custom", s.Name())
	positions := s.Positions()
	require.Len(t, positions, 1)
	// Side and type default to a bought call.
	assert.Equal(t, Call, positions[0].Type)
	assert.Equal(t, Long, positions[0].Direction)

	sp.Legs = []LegSpec{{Side: "hold", Strike: "ATM"}}
	_, err = sp.Build()
	assert.ErrorIs(t, err, ErrInvalidPosition)

	sp.Legs = []LegSpec{{OptionType: "forward", Strike: "ATM"}}
	_, err = sp.Build()
	assert.ErrorIs(t, err, ErrInvalidPosition)

	sp.Legs = []LegSpec{{Strike: "{LEG1.STRIKE}"}}
	_, err = sp.Build()
	assert.ErrorIs(t, err, ErrLegIndexOutOfRange)
}

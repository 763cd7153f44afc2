// Package report renders strategies for terminal display and writes
// payoff analyses to JSON and CSV files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/contactkeval/optistrat/internal/logger"
	"github.com/contactkeval/optistrat/internal/strategy"
)

// GridPoint is one sampled expiry spot and the strategy payoff there.
type GridPoint struct {
	Spot   float64 `json:"spot"`
	Payoff float64 `json:"payoff"`
}

// Grid is a payoff analysis across a range of expiry spots.
type Grid struct {
	Strategy   string      `json:"strategy"`
	Points     []GridPoint `json:"points"`
	MaxProfit  float64     `json:"max_profit"`
	MaxLoss    float64     `json:"max_loss"`
	Breakevens []float64   `json:"breakevens"`
}

// PayoffGrid samples the strategy's expiration payoff on steps+1 evenly
// spaced expiry spots in [lo, hi] and summarizes the curve.
//
// MaxProfit/MaxLoss describe the sampled range only: strategies with
// unbounded wings keep paying beyond hi.
func PayoffGrid(s *strategy.Strategy, lo, hi float64, steps int) (Grid, error) {
	if steps < 1 {
		return Grid{}, fmt.Errorf("payoff grid needs at least 1 step, got %d", steps)
	}
	if lo < 0 || hi <= lo {
		return Grid{}, fmt.Errorf("payoff grid needs 0 <= lo < hi, got lo=%g hi=%g", lo, hi)
	}

	logger.Debugf("sampling payoff grid strategy=%q lo=%g hi=%g steps=%d", s.Name(), lo, hi, steps)

	g := Grid{Strategy: s.Name()}
	width := (hi - lo) / float64(steps)
	payoffs := make([]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		spot := lo + float64(i)*width
		payoff, err := s.PayoffAtExpiration(spot)
		if err != nil {
			return Grid{}, err
		}
		g.Points = append(g.Points, GridPoint{Spot: spot, Payoff: payoff})
		payoffs = append(payoffs, payoff)
	}

	maxProfit, err := stats.Max(payoffs)
	if err != nil {
		return Grid{}, err
	}
	maxLoss, err := stats.Min(payoffs)
	if err != nil {
		return Grid{}, err
	}
	g.MaxProfit = maxProfit
	g.MaxLoss = maxLoss
	g.Breakevens = breakevens(g.Points)
	return g, nil
}

// breakevens finds where the sampled payoff curve meets zero: sign
// changes are located by linear interpolation between the neighboring
// samples, and exact-zero samples count only at the edge of a nonzero
// region (interior points of a flat-zero stretch are not breakevens).
func breakevens(points []GridPoint) []float64 {
	var out []float64
	n := len(points)
	for i := 0; i < n; i++ {
		cur := points[i]
		if i > 0 {
			prev := points[i-1]
			if prev.Payoff*cur.Payoff < 0 {
				t := prev.Payoff / (prev.Payoff - cur.Payoff)
				out = append(out, prev.Spot+t*(cur.Spot-prev.Spot))
			}
		}
		if cur.Payoff == 0 {
			leftNonzero := i > 0 && points[i-1].Payoff != 0
			rightNonzero := i < n-1 && points[i+1].Payoff != 0
			if leftNonzero || rightNonzero {
				out = append(out, cur.Spot)
			}
		}
	}
	return out
}

// PositionsTable renders the strategy's legs as an aligned text table.
func PositionsTable(s *strategy.Strategy) string {
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"#", "Direction", "Type", "Qty", "Strike"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, pos := range s.Positions() {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			string(pos.Direction),
			string(pos.Type),
			fmt.Sprintf("%g", pos.Quantity),
			fmt.Sprintf("%.2f", pos.Strike),
		})
	}
	table.Render()
	return sb.String()
}

// GreeksTable renders aggregate strategy Greeks as an aligned text table.
func GreeksTable(totals strategy.GreekTotals) string {
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"Greek", "Value"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.Append([]string{"delta", fmt.Sprintf("%.6f", totals.Delta)})
	table.Append([]string{"gamma", fmt.Sprintf("%.6f", totals.Gamma)})
	table.Append([]string{"vega", fmt.Sprintf("%.6f", totals.Vega)})
	table.Append([]string{"theta", fmt.Sprintf("%.6f", totals.Theta)})
	table.Append([]string{"rho", fmt.Sprintf("%.6f", totals.Rho)})
	table.Render()
	return sb.String()
}

// WriteJSON writes the payoff grid to payoff.json in outdir.
func WriteJSON(g Grid, outdir string) error {
	b, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "payoff.json"), b, 0644)
}

// WriteCSV writes the payoff grid points to payoff.csv in outdir.
func WriteCSV(g Grid, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "payoff.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"spot", "payoff"}); err != nil {
		return err
	}
	for _, p := range g.Points {
		if err := w.Write([]string{fmt.Sprintf("%.4f", p.Spot), fmt.Sprintf("%.4f", p.Payoff)}); err != nil {
			return err
		}
	}
	return nil
}

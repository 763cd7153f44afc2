// Command optistrat prices European options and multi-leg option
// strategies under the Black-Scholes model.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/contactkeval/optistrat/internal/logger"
	"github.com/contactkeval/optistrat/internal/pricing"
	"github.com/contactkeval/optistrat/internal/report"
	"github.com/contactkeval/optistrat/internal/server"
	"github.com/contactkeval/optistrat/internal/strategy"
)

var (
	verbosity int

	// shared model flags for price/greeks
	strike     float64
	volatility float64
	rate       float64
	maturity   float64
	spot       float64
)

func main() {
	root := &cobra.Command{
		Use:   "optistrat",
		Short: "Black-Scholes option and strategy pricer",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.SetVerbosity(verbosity)
		},
	}
	root.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 1, "0=errors 1=info 2=debug 3=trace")

	root.AddCommand(newPriceCmd(), newGreeksCmd(), newStrategyCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&strike, "strike", "k", 100, "option strike price")
	cmd.Flags().Float64Var(&volatility, "vol", 0.2, "annualized volatility")
	cmd.Flags().Float64VarP(&rate, "rate", "r", 0.05, "risk-free rate")
	cmd.Flags().Float64VarP(&maturity, "maturity", "t", 1, "time to maturity in years")
	cmd.Flags().Float64VarP(&spot, "spot", "s", 100, "underlying price")
}

func buildModel() (pricing.Model, error) {
	return pricing.New(strike, volatility, rate, maturity, spot)
}

func newPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a single European option",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := buildModel()
			if err != nil {
				return err
			}
			d1, err := m.D1()
			if err != nil {
				return err
			}
			d2, err := m.D2()
			if err != nil {
				return err
			}
			call, err := m.CallPrice()
			if err != nil {
				return err
			}
			put, err := m.PutPrice()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "call = %.6f\n", call)
			fmt.Fprintf(out, "put  = %.6f\n", put)
			fmt.Fprintf(out, "d1   = %.6f\n", d1)
			fmt.Fprintf(out, "d2   = %.6f\n", d2)
			return nil
		},
	}
	addModelFlags(cmd)
	return cmd
}

func newGreeksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Compute the Greeks of a single European option",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := buildModel()
			if err != nil {
				return err
			}
			g := pricing.NewGreeks(m)

			rows := []struct {
				name string
				get  func() (float64, error)
			}{
				{"call delta", g.CallDelta},
				{"put delta", g.PutDelta},
				{"gamma", g.Gamma},
				{"vega", g.Vega},
				{"call theta", g.CallTheta},
				{"put theta", g.PutTheta},
				{"call rho", g.CallRho},
				{"put rho", g.PutRho},
			}
			out := cmd.OutOrStdout()
			for _, row := range rows {
				v, err := row.get()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-10s = %.6f\n", row.name, v)
			}
			return nil
		},
	}
	addModelFlags(cmd)
	return cmd
}

func newStrategyCmd() *cobra.Command {
	var (
		specPath string
		payoffLo float64
		payoffHi float64
		steps    int
		outDir   string
	)
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Value a multi-leg strategy from a JSON spec",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(specPath)
			if err != nil {
				return fmt.Errorf("reading spec: %w", err)
			}
			var spec strategy.Spec
			if err := json.Unmarshal(raw, &spec); err != nil {
				return fmt.Errorf("invalid spec: %w", err)
			}
			s, err := spec.Build()
			if err != nil {
				return err
			}
			logger.Infof("built strategy %q with %d legs", s.Name(), len(s.Positions()))

			value, err := s.TotalValue()
			if err != nil {
				return err
			}
			totals, err := s.TotalGreeks()
			if err != nil {
				return err
			}

			// default payoff window: +/-50% around spot
			if payoffLo == 0 && payoffHi == 0 {
				payoffLo, payoffHi = spec.Spot*0.5, spec.Spot*1.5
			}
			grid, err := report.PayoffGrid(s, payoffLo, payoffHi, steps)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", s.Name())
			fmt.Fprint(out, report.PositionsTable(s))
			fmt.Fprintf(out, "total value = %.6f\n", value)
			fmt.Fprint(out, report.GreeksTable(totals))
			fmt.Fprintf(out, "max profit (sampled) = %.4f\n", grid.MaxProfit)
			fmt.Fprintf(out, "max loss   (sampled) = %.4f\n", grid.MaxLoss)
			fmt.Fprintf(out, "breakevens = %v\n", grid.Breakevens)

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return err
				}
				if err := report.WriteJSON(grid, outDir); err != nil {
					return err
				}
				if err := report.WriteCSV(grid, outDir); err != nil {
					return err
				}
				logger.Infof("wrote payoff reports to %s", outDir)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&specPath, "spec", "strategy.json", "path to JSON strategy spec")
	cmd.Flags().Float64Var(&payoffLo, "payoff-lo", 0, "payoff grid lower expiry spot (default spot*0.5)")
	cmd.Flags().Float64Var(&payoffHi, "payoff-hi", 0, "payoff grid upper expiry spot (default spot*1.5)")
	cmd.Flags().IntVar(&steps, "steps", 100, "payoff grid steps")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for payoff.json / payoff.csv (omit to skip)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pricer over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger.Infof("starting REST server on %s", addr)
			return http.ListenAndServe(addr, server.NewRouter())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

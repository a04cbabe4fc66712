package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/icodeforyou/solarcalc-go/calc"
	"github.com/icodeforyou/solarcalc-go/convert"
	"github.com/icodeforyou/solarcalc-go/estimate"
	"github.com/icodeforyou/solarcalc-go/prices"
	"github.com/icodeforyou/solarcalc-go/types"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
)

func main() {
	var (
		state      string
		size       string
		asJSON     bool
		listStates bool
		verbose    bool
	)

	pflag.StringVarP(&state, "state", "s", "", "US state, e.g. \"Alabama\"")
	pflag.StringVarP(&size, "size", "k", "5", "System size in kW DC")
	pflag.BoolVarP(&asJSON, "json", "j", false, "Print the result as JSON")
	pflag.BoolVarP(&listStates, "list-states", "l", false, "List the states and their electricity prices")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  solarcalc --state <name> [--size <kW>] [--json]\n")
		fmt.Fprintf(os.Stderr, "  solarcalc --list-states\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))

	table := prices.Default()

	if listStates {
		if err := printStates(os.Stdout, table.States()); err != nil {
			logger.Error("failed to print states", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if state != "" && !table.Has(state) {
		logger.Warn("unknown state, using default price",
			slog.String("state", state),
			slog.Float64("price", prices.DefaultPrice))
	}

	est := estimate.New(logger, table, calc.DefaultConstants())
	res, err := est.Run(estimate.Input{State: state, SizeText: size})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		pflag.Usage()
		os.Exit(2)
	}

	if asJSON {
		err = printJSON(os.Stdout, res)
	} else {
		err = printResult(os.Stdout, res)
	}
	if err != nil {
		logger.Error("failed to print result", slog.Any("error", err))
		os.Exit(1)
	}
}

func printStates(w io.Writer, states []types.StatePrice) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range states {
		fmt.Fprintf(tw, "%s\t%s\n", s.State, convert.PricePerKWh(s.Price))
	}
	return tw.Flush()
}

func printJSON(w io.Writer, res estimate.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func printResult(w io.Writer, res estimate.Result) error {
	if res.Degenerate {
		_, err := fmt.Fprintf(w, "A %g kW DC system is too large to project, payback %s years\n", res.Spec.SizeKwDc, res.Payback)
		return err
	}

	irr := convert.Percent(res.IRRPercent)
	if !res.IRR.Converged {
		irr += " (did not converge)"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "State\t%s\n", res.Spec.State)
	fmt.Fprintf(tw, "System size\t%.2f kW DC\n", res.Spec.SizeKwDc)
	fmt.Fprintf(tw, "System cost\t%s\n", convert.USD(res.Summary.SystemCost))
	fmt.Fprintf(tw, "Annual generation\t%s kWh\n", convert.KWh(res.Summary.AnnualKWh))
	fmt.Fprintf(tw, "Electricity price\t%s\n", convert.PricePerKWh(res.PricePerKwh))
	fmt.Fprintf(tw, "Tax credit\t%s\n", convert.USD(res.Summary.TaxCredit))
	fmt.Fprintf(tw, "IRR\t%s\n", irr)
	fmt.Fprintf(tw, "Payback\t%s years\n", res.Payback)
	fmt.Fprintf(tw, "Net profit\t%s\n", convert.USD(res.Summary.NetProfit))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Year\tAnnual\tCumulative\t")
	for _, row := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t\n", row.Year, convert.USD(row.Annual), convert.USD(row.Cumulative))
	}
	return tw.Flush()
}

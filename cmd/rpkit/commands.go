package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rgehrsitz/rpkit/internal/compare"
	"github.com/rgehrsitz/rpkit/internal/config"
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/rgehrsitz/rpkit/internal/output"
	"github.com/rgehrsitz/rpkit/internal/server"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// decimalValue lets a decimal.Decimal be set from a flag.
type decimalValue struct{ d *decimal.Decimal }

var _ pflag.Value = decimalValue{}

func (v decimalValue) String() string {
	if v.d == nil {
		return "0"
	}
	return v.d.String()
}

func (v decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid decimal %q", s)
	}
	*v.d = d
	return nil
}

func (v decimalValue) Type() string { return "decimal" }

func decimalFlag(fs *pflag.FlagSet, p *decimal.Decimal, name string, def float64, usage string) {
	*p = decimal.NewFromFloat(def)
	fs.Var(decimalValue{p}, name, usage)
}

// decimalListValue collects a comma separated list of decimals.
type decimalListValue struct{ ds *[]decimal.Decimal }

func (v decimalListValue) String() string {
	if v.ds == nil {
		return "[]"
	}
	return fmt.Sprint(*v.ds)
}

func (v decimalListValue) Set(s string) error {
	var parsed []decimal.Decimal
	for _, part := range splitList(s) {
		d, err := decimal.NewFromString(part)
		if err != nil {
			return fmt.Errorf("invalid decimal %q", part)
		}
		parsed = append(parsed, d)
	}
	*v.ds = append(*v.ds, parsed...)
	return nil
}

func (v decimalListValue) Type() string { return "decimals" }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// output opens the -o file or falls back to the command's stdout.
func (a *app) output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if a.outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(a.outFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// run validates req, calculates it against the configured rules and writes the
// report in the configured format.
func (a *app) run(cmd *cobra.Command, req *domain.Request) error {
	if req.Simulation != nil {
		a.applySimulationDefaults(req.Simulation)
	}
	if err := config.NewRequestParser().Validate(req); err != nil {
		return err
	}
	engine, err := a.engineFor(req.TaxYear)
	if err != nil {
		return err
	}
	report, err := engine.Calculate(cmd.Context(), req)
	if err != nil {
		return err
	}

	w, closeFn, err := a.output(cmd)
	if err != nil {
		return err
	}
	if err := output.GenerateReport(w, report, a.v.GetString("output.format")); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if a.outFile != "" {
		a.logger.Infof("report written to %s", a.outFile)
	}
	return nil
}

// applySimulationDefaults fills unset simulation knobs from the settings file.
func (a *app) applySimulationDefaults(cfg *domain.SimulationConfig) {
	s := a.settings.Simulation
	if cfg.Paths == 0 {
		cfg.Paths = s.Paths
	}
	if cfg.Workers == 0 {
		cfg.Workers = s.Workers
	}
	if cfg.Seed == 0 {
		cfg.Seed = s.Seed
	}
}

func spiaCmd(a *app) *cobra.Command {
	var (
		req    domain.SPIARequest
		gender string
	)
	cmd := &cobra.Command{
		Use:   "spia",
		Short: "Quote a single premium immediate annuity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := domain.ParseGender(gender)
			if err != nil {
				return err
			}
			req.Gender = g
			return a.run(cmd, &domain.Request{SPIA: &req})
		},
	}
	fs := cmd.Flags()
	decimalFlag(fs, &req.LumpSum, "lump-sum", 0, "Premium paid for the annuity")
	fs.IntVar(&req.Age, "age", 65, "Age at purchase")
	fs.StringVar(&gender, "gender", "male", "Annuitant gender (male or female)")
	fs.BoolVar(&req.JointLife, "joint", false, "Joint-life payout")
	return cmd
}

func withdrawCmd(a *app) *cobra.Command {
	var (
		req    domain.WithdrawalRequest
		rates  []decimal.Decimal
		growth decimal.Decimal
	)
	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Simulate fixed-percentage withdrawals from a lump sum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.RatesPercent = rates
			if cmd.Flags().Changed("return") {
				req.AnnualReturn = &growth
			}
			return a.run(cmd, &domain.Request{Withdrawal: &req})
		},
	}
	fs := cmd.Flags()
	decimalFlag(fs, &req.Principal, "principal", 0, "Starting balance")
	fs.IntVar(&req.StartAge, "start-age", 65, "Age at the first withdrawal")
	fs.Var(decimalListValue{&rates}, "rates", "Withdrawal rates in percent, comma separated (default 3,4,5)")
	decimalFlag(fs, &growth, "return", 0.05, "Annual portfolio return as a fraction")
	return cmd
}

func redFlagsCmd(a *app) *cobra.Command {
	var c domain.AnnuityContract
	cmd := &cobra.Command{
		Use:   "red-flags",
		Short: "Check an annuity contract for red flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, &domain.Request{RedFlags: &c})
		},
	}
	fs := cmd.Flags()
	decimalFlag(fs, &c.CommissionPercent, "commission", 0, "Agent commission in percent")
	fs.IntVar(&c.SurrenderYears, "surrender-years", 0, "Surrender charge period in years")
	fs.BoolVar(&c.IsInIRA, "in-ira", false, "Contract is held inside an IRA")
	decimalFlag(fs, &c.AnnualFeesPercent, "fees", 0, "Total annual fees in percent")
	decimalFlag(fs, &c.ConcentrationPercent, "concentration", 0, "Share of net worth in the contract, in percent")
	decimalFlag(fs, &c.PremiumBonusPercent, "premium-bonus", 0, "Premium bonus in percent")
	return cmd
}

func fireCmd(a *app) *cobra.Command {
	var (
		in            domain.FIREInput
		variant, rule string
	)
	cmd := &cobra.Command{
		Use:   "fire",
		Short: "Project a financial independence timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := domain.ParseFIREVariant(variant)
			if err != nil {
				return err
			}
			r, err := domain.ParseWithdrawalRule(rule)
			if err != nil {
				return err
			}
			in.Variant, in.Rule = v, r
			return a.run(cmd, &domain.Request{FIRE: &in})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&variant, "variant", "traditional", "FIRE variant (traditional, coast or barista)")
	fs.StringVar(&rule, "rule", "4_percent", "Safe withdrawal rule (4_percent or 3_percent)")
	fs.IntVar(&in.CurrentAge, "age", 30, "Current age")
	decimalFlag(fs, &in.AnnualExpenses, "expenses", 0, "Annual expenses")
	decimalFlag(fs, &in.AnnualIncome, "income", 0, "Annual income, for the savings rate")
	decimalFlag(fs, &in.AnnualSavings, "savings", 0, "Annual savings contribution")
	decimalFlag(fs, &in.CurrentSavings, "current-savings", 0, "Invested savings today")
	decimalFlag(fs, &in.RealReturn, "real-return", 0.05, "Real annual return as a fraction")
	decimalFlag(fs, &in.PartTimeIncome, "part-time-income", 0, "Annual part-time income (barista)")
	fs.IntVar(&in.CoastRetirementAge, "coast-age", 65, "Retirement age (coast)")
	fs.BoolVar(&in.IncludeHealthcare, "healthcare", false, "Add healthcare cost to expenses")
	decimalFlag(fs, &in.HealthcareCost, "healthcare-cost", 0, "Annual healthcare cost")
	return cmd
}

func refiCmd(a *app) *cobra.Command {
	var in domain.RefinanceInput
	cmd := &cobra.Command{
		Use:   "refi",
		Short: "Analyze a mortgage refinance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, &domain.Request{Refinance: &in})
		},
	}
	fs := cmd.Flags()
	decimalFlag(fs, &in.CurrentBalance, "balance", 0, "Current loan balance")
	decimalFlag(fs, &in.CurrentRate, "rate", 0, "Current annual rate as a fraction")
	fs.IntVar(&in.RemainingMonths, "remaining-months", 360, "Months left on the current loan")
	decimalFlag(fs, &in.NewRate, "new-rate", 0, "New annual rate as a fraction")
	fs.IntVar(&in.NewTermYears, "new-term", 30, "New loan term in years")
	decimalFlag(fs, &in.ClosingCosts, "closing-costs", 0, "Closing costs")
	decimalFlag(fs, &in.CashOut, "cash-out", 0, "Cash taken out at closing")
	decimalFlag(fs, &in.Points, "points", 0, "Discount points bought")
	decimalFlag(fs, &in.ExtraMonthlyPayment, "extra-payment", 0, "Extra principal paid each month")
	return cmd
}

func taxCmd(a *app) *cobra.Command {
	var (
		req    domain.TaxRequest
		status string
		magi   decimal.Decimal
		year   int
	)
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Compute federal income tax",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := domain.ParseFilingStatus(status)
			if err != nil {
				return err
			}
			req.FilingStatus = fs
			if cmd.Flags().Changed("magi") {
				req.MAGI = &magi
			}
			return a.run(cmd, &domain.Request{TaxYear: year, Tax: &req})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&status, "status", "single", "Filing status (single or mfj)")
	decimalFlag(fs, &req.GrossIncome, "income", 0, "Ordinary gross income")
	decimalFlag(fs, &req.LongTermGains, "gains", 0, "Long-term capital gains and qualified dividends")
	decimalFlag(fs, &req.NetInvestmentIncome, "nii", 0, "Net investment income")
	decimalFlag(fs, &magi, "magi", 0, "Modified AGI for the NIIT test (default gross income plus gains)")
	fs.IntSliceVar(&req.Ages, "ages", nil, "Ages of the taxpayer and spouse")
	fs.IntVar(&year, "year", 0, "Tax year (default the configured year)")
	return cmd
}

func rmdCmd(a *app) *cobra.Command {
	var req domain.RMDRequest
	cmd := &cobra.Command{
		Use:   "rmd",
		Short: "Compute a required minimum distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, &domain.Request{RMD: &req})
		},
	}
	fs := cmd.Flags()
	decimalFlag(fs, &req.Balance, "balance", 0, "Prior year-end account balance")
	fs.IntVar(&req.Age, "age", 73, "Age at year end")
	fs.IntVar(&req.BirthYear, "birth-year", 0, "Birth year, selects the RMD start age")
	return cmd
}

func piaCmd(a *app) *cobra.Command {
	var (
		req      domain.PIARequest
		claimAge int
	)
	cmd := &cobra.Command{
		Use:   "pia",
		Short: "Compute the Social Security primary insurance amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if claimAge > 0 && req.ClaimAgeMonths == 0 {
				req.ClaimAgeMonths = claimAge * 12
			}
			return a.run(cmd, &domain.Request{PIA: &req})
		},
	}
	fs := cmd.Flags()
	decimalFlag(fs, &req.AIME, "aime", 0, "Average indexed monthly earnings")
	fs.IntVar(&claimAge, "claim-age", 0, "Claiming age in whole years")
	fs.IntVar(&req.ClaimAgeMonths, "claim-age-months", 0, "Claiming age in months")
	fs.IntVar(&req.FRAMonths, "fra-months", 0, "Full retirement age in months (default from --birth-year, else 804)")
	fs.IntVar(&req.BirthYear, "birth-year", 0, "Birth year, selects the full retirement age")
	return cmd
}

func estateCmd(a *app) *cobra.Command {
	var req domain.EstateRequest
	cmd := &cobra.Command{
		Use:   "estate",
		Short: "Estimate federal estate tax",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, &domain.Request{Estate: &req})
		},
	}
	decimalFlag(cmd.Flags(), &req.Estate, "estate", 0, "Gross estate value")
	cmd.Flags().BoolVar(&req.Married, "married", false, "Apply the portable spousal exemption")
	return cmd
}

func rothCmd(a *app) *cobra.Command {
	var (
		req    domain.RothRequest
		status string
	)
	cmd := &cobra.Command{
		Use:   "roth",
		Short: "Price a Roth conversion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := domain.ParseFilingStatus(status)
			if err != nil {
				return err
			}
			req.FilingStatus = fs
			return a.run(cmd, &domain.Request{Roth: &req})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&status, "status", "single", "Filing status (single or mfj)")
	decimalFlag(fs, &req.OtherIncome, "income", 0, "Ordinary income before the conversion")
	decimalFlag(fs, &req.Amount, "amount", 0, "Amount converted")
	return cmd
}

func simulateCmd(a *app) *cobra.Command {
	var (
		cfg             domain.SimulationConfig
		model, spending string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a Monte Carlo retirement simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseReturnModel(model)
			if err != nil {
				return err
			}
			s, err := domain.ParseSpendingStrategy(spending)
			if err != nil {
				return err
			}
			cfg.ReturnModel, cfg.Spending = m, s
			return a.run(cmd, &domain.Request{Simulation: &cfg})
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&cfg.Paths, "paths", 0, "Number of simulated paths (default from settings)")
	fs.IntVar(&cfg.Years, "years", 30, "Years per path")
	decimalFlag(fs, &cfg.InitialBalance, "balance", 0, "Starting portfolio balance")
	decimalFlag(fs, &cfg.AnnualWithdrawal, "withdrawal", 0, "First-year withdrawal")
	decimalFlag(fs, &cfg.Inflation, "inflation", 0.025, "Annual inflation as a fraction")
	fs.StringVar(&model, "model", string(domain.DefaultReturnModel), "Return model (historical or statistical)")
	decimalFlag(fs, &cfg.MeanReturn, "mean", 0, "Mean annual return for the statistical model (default from rules)")
	decimalFlag(fs, &cfg.StdDev, "stddev", 0, "Return volatility for the statistical model (default from rules)")
	fs.StringVar(&spending, "spending", "fixed_real", "Spending strategy (fixed_real or guardrails)")
	fs.Int64Var(&cfg.Seed, "seed", 0, "Random seed, 0 picks one (default from settings)")
	fs.IntVar(&cfg.Workers, "workers", 0, "Concurrent workers (default from settings)")
	return cmd
}

func guardrailsCmd(a *app) *cobra.Command {
	var req domain.GuardrailsRequest
	cmd := &cobra.Command{
		Use:     "guardrails",
		Short:   "Replay guardrail spending rules over a sequence of annual returns",
		Example: `  rpkit guardrails --balance 1000000 --withdrawal 50000 --returns -0.3,0.05,0.12`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, &domain.Request{Guardrails: &req})
		},
	}
	fs := cmd.Flags()
	decimalFlag(fs, &req.InitialBalance, "balance", 0, "Starting portfolio balance")
	decimalFlag(fs, &req.InitialWithdrawal, "withdrawal", 0, "First-year withdrawal")
	decimalFlag(fs, &req.Inflation, "inflation", 0, "Annual inflation as a fraction")
	fs.Var(decimalListValue{&req.Returns}, "returns", "Annual returns as fractions, one per year")
	decimalFlag(fs, &req.Bands.Upper, "upper", 0, "Cut spending above this multiple of the initial rate (default 1.2)")
	decimalFlag(fs, &req.Bands.Lower, "lower", 0, "Raise spending below this multiple of the initial rate (default 0.8)")
	decimalFlag(fs, &req.Bands.Adjustment, "adjustment", 0, "Fraction spending moves on a cut or raise (default 0.1)")
	return cmd
}

func compareCmd(a *app) *cobra.Command {
	var (
		req    domain.ComparisonRequest
		gender string
		growth decimal.Decimal
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare an annuity against systematic withdrawals",
		Long: `Quote an annuity for the lump sum and compare it with drawing the same
sum down at each withdrawal rate. Uses its own table, csv and json layouts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := domain.ParseGender(gender)
			if err != nil {
				return err
			}
			req.Gender = g
			if cmd.Flags().Changed("return") {
				req.AnnualReturn = &growth
			}
			if err := config.NewRequestParser().ValidateComparison(&req); err != nil {
				return err
			}
			engine, err := a.engineFor(0)
			if err != nil {
				return err
			}
			set := engine.Compare(req)

			var text string
			switch output.NormalizeFormatName(a.v.GetString("output.format")) {
			case "json":
				text, err = (&compare.JSONFormatter{Pretty: true}).Format(set)
			case "csv":
				text, err = (&compare.CSVFormatter{}).Format(set)
			default:
				text = (&compare.TableFormatter{}).Format(set)
			}
			if err != nil {
				return err
			}
			w, closeFn, err := a.output(cmd)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(w, text); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}
	fs := cmd.Flags()
	decimalFlag(fs, &req.LumpSum, "lump-sum", 0, "Lump sum to compare")
	fs.IntVar(&req.Age, "age", 65, "Age at the start")
	fs.StringVar(&gender, "gender", "male", "Annuitant gender (male or female)")
	fs.BoolVar(&req.JointLife, "joint", false, "Joint-life annuity")
	fs.Var(decimalListValue{&req.RatesPercent}, "rates", "Withdrawal rates in percent, comma separated (default 3,4,5)")
	decimalFlag(fs, &growth, "return", 0.05, "Annual portfolio return as a fraction")
	return cmd
}

func calculateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Run every section of a request file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := config.NewRequestParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd, req)
		},
	}
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a request file without calculating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewRequestParser()
			req, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if err := parser.Validate(req); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ %s is valid\n", args[0])
			for _, s := range req.Sections() {
				fmt.Fprintf(out, "  • %s\n", s)
			}
			return nil
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engineFor(0)
			if err != nil {
				return err
			}
			return server.New(engine, a.settings.Server, a.logger).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

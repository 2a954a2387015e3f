package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/rgehrsitz/rpkit/internal/calculation"
	"github.com/rgehrsitz/rpkit/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is the state shared by every command once flags and settings are resolved.
type app struct {
	v        *viper.Viper
	settings *config.Settings
	logger   *zap.SugaredLogger

	configFile string
	debug      bool
	outFile    string
}

// engineFor loads the rules for year (0 means the configured year) and wires the logger.
func (a *app) engineFor(year int) (*calculation.Engine, error) {
	rules, err := a.settings.Rules(year)
	if err != nil {
		return nil, err
	}
	engine := calculation.NewEngine(rules)
	engine.SetLogger(a.logger)
	a.logger.Debugf("loaded rules for tax year %d", rules.Metadata.TaxYear)
	return engine, nil
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "rpkit",
		Short: "Retirement planning calculator toolkit",
		Long: `rpkit prices annuities, simulates withdrawals, projects FIRE timelines,
analyzes refinances and computes federal tax, RMD, Social Security and estate
figures from versioned rules tables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(a.v, a.configFile)
			if err != nil {
				return err
			}
			if a.debug {
				settings.Log.Level = "debug"
			}
			logger, err := newLogger(settings.Log)
			if err != nil {
				return err
			}
			a.settings = settings
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Settings file (default: ./rpkit.yaml or $HOME/.config/rpkit/rpkit.yaml)")
	pf.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	pf.StringP("format", "f", "console", "Output format (console, json, csv, pdf)")
	pf.StringVarP(&a.outFile, "output", "o", "", "Write output to a file instead of stdout")
	pf.Int("tax-year", config.DefaultTaxYear, "Tax year of the embedded rules tables")
	pf.String("rules", "", "Rules tables file overriding the embedded tables")
	_ = a.v.BindPFlag("output.format", pf.Lookup("format"))
	_ = a.v.BindPFlag("tax_year", pf.Lookup("tax-year"))
	_ = a.v.BindPFlag("rules_file", pf.Lookup("rules"))

	root.AddCommand(
		spiaCmd(a),
		withdrawCmd(a),
		redFlagsCmd(a),
		fireCmd(a),
		refiCmd(a),
		taxCmd(a),
		rmdCmd(a),
		piaCmd(a),
		estateCmd(a),
		rothCmd(a),
		simulateCmd(a),
		guardrailsCmd(a),
		compareCmd(a),
		calculateCmd(a),
		validateCmd(a),
		serveCmd(a),
		rulesCmd(a),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rpkit %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(cmd.OutOrStdout(), bi.Main.Path, bi.GoVersion)
			}
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

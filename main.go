package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iochen/lcglab/lcg"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds the state shared by all subcommands.
type cli struct {
	cfgFile string
	viper   *viper.Viper
	config  *Config
	log     *logrus.Logger

	preset string
	params lcg.Params
}

func newRootCmd() *cobra.Command {
	c := &cli{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "lcglab",
		Short: "Linear congruential generator lab.",
		Long: `Check LCG parameters against the Hull-Dobell full-period theorem and
generate the normalized output stream X_{n+1} = (a*X_n + c) mod m, X_0 = 1.
For example:
  lcglab analyze --preset ansi-c
  lcglab sequence --a 5 --c 3 --m 16 --length 16
  lcglab serve --listen :4004`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", defaultConfigFile, "config file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	_ = c.viper.BindPFlag("log_level", flags.Lookup("log-level"))

	rootCmd.AddCommand(c.serveCmd(), c.analyzeCmd(), c.sequenceCmd())
	return rootCmd
}

// setup loads the config, creating it on first run, and sets up logging.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	path, err := configPath(c.cfgFile)
	if err != nil {
		return err
	}
	created, err := writeDefaultConfig(path)
	if err != nil {
		return err
	}
	c.config, err = loadConfig(c.viper, path)
	if err != nil {
		return err
	}
	c.log, err = newLogger(c.config.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if created {
		c.log.WithField("config", path).Info("Config file created!")
	}
	return nil
}

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer and sequence API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(c.config, c.log)
		},
	}
	cmd.Flags().StringP("listen", "l", "", "listen address (default from config)")
	_ = c.viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	return cmd
}

func (c *cli) paramFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.preset, "preset", "p", "", "start from a named parameter set (ansi-c, numerical-recipes, randu)")
	flags.Int64Var(&c.params.Multiplier, "a", 0, "multiplier")
	flags.Int64Var(&c.params.Increment, "c", 0, "increment")
	flags.Int64Var(&c.params.Modulus, "m", 0, "modulus")
}

// resolve applies the preset and explicit flags on top of the configured
// defaults.
func (c *cli) resolve(cmd *cobra.Command) (lcg.Params, error) {
	p := c.config.Defaults
	if c.preset != "" {
		preset, ok := lcg.Preset(c.preset)
		if !ok {
			return lcg.Params{}, fmt.Errorf("unknown preset %q", c.preset)
		}
		p = preset
	}
	flags := cmd.Flags()
	if flags.Changed("a") {
		p.Multiplier = c.params.Multiplier
	}
	if flags.Changed("c") {
		p.Increment = c.params.Increment
	}
	if flags.Changed("m") {
		p.Modulus = c.params.Modulus
	}
	return p, nil
}

func (c *cli) analyzeCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Check parameters against the Hull-Dobell theorem",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.resolve(cmd)
			if err != nil {
				return err
			}
			v, err := lcg.Analyze(p)
			if err != nil {
				return err
			}
			c.log.WithFields(logrus.Fields{"params": p.String(), "full_period": v.IsFullPeriod}).Debug("analyzed")
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), &analyzeResponse{Params: p, Verdict: v})
			}
			printVerdict(cmd.OutOrStdout(), p, v)
			return nil
		},
	}
	c.paramFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the verdict as JSON")
	return cmd
}

func (c *cli) sequenceCmd() *cobra.Command {
	var (
		length  int
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Print the normalized output stream X_i/m, one value per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.resolve(cmd)
			if err != nil {
				return err
			}
			seq, err := lcg.Generate(p, length)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if summary {
				return writeJSON(out, lcg.Summarize(seq))
			}
			for _, v := range seq {
				if _, err := fmt.Fprintln(out, strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.paramFlags(cmd)
	cmd.Flags().IntVarP(&length, "length", "n", 16, "number of values")
	cmd.Flags().BoolVar(&summary, "summary", false, "print statistics instead of the values")
	return cmd
}

func printVerdict(w io.Writer, p lcg.Params, v lcg.Verdict) {
	check := func(ok bool) string {
		if ok {
			return "[x]"
		}
		return "[ ]"
	}
	fmt.Fprintf(w, "%s\n", p)
	fmt.Fprintf(w, "prime factors of m: %v\n", v.PrimeFactors)
	fmt.Fprintf(w, "%s c and m are relatively prime\n", check(v.Conditions.RelativelyPrime))
	fmt.Fprintf(w, "%s a-1 is divisible by every prime factor of m\n", check(v.Conditions.PrimeFactorsDivisible))
	fmt.Fprintf(w, "%s a-1 is divisible by 4 if m is\n", check(v.Conditions.DivisibleBy4))
	fmt.Fprintf(w, "full period: %t\n", v.IsFullPeriod)
	fmt.Fprintln(w, v.Recommendation)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

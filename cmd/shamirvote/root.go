package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/Laisky/zap"
	"github.com/pkg/errors"
	"github.com/renproject/shamirvote/detect"
	"github.com/renproject/shamirvote/input"
	"github.com/renproject/shamirvote/logging"
	"github.com/renproject/shamirvote/params"
	"github.com/renproject/shamirvote/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config is the resolved command configuration. Values come from flags,
// SHAMIRVOTE_* environment variables and the optional config file, in that
// order of precedence.
type config struct {
	Input            string `mapstructure:"input"`
	Prime            string `mapstructure:"prime"`
	Workers          int    `mapstructure:"workers"`
	Witness          string `mapstructure:"witness"`
	SkipDegenerate   bool   `mapstructure:"skip-degenerate"`
	AllowUndecidable bool   `mapstructure:"allow-undecidable"`
	MaxSubsets       uint64 `mapstructure:"max-subsets"`
	Format           string `mapstructure:"format"`
	Debug            bool   `mapstructure:"debug"`
}

func newRootCmd() *cobra.Command {
	settings := viper.New()
	cmd := &cobra.Command{
		Use:   "shamirvote",
		Short: "reconstruct a shared secret and find corrupt shares",
		Long: `Reconstruct a Shamir shared secret by interpolating every subset of k
shares, take the secret most subsets agree on, and report the shares that
never took part in a subset giving that secret.

Shares are read as JSON from --input, or from stdin when no input is given.`,
		Args:          noExtraArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(settings, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Debug {
				if err := logging.Shared.ChangeLevel("debug"); err != nil {
					return errors.Wrap(err, "change logger level to debug")
				}
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logging.Shared.Logger)
		},
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "share file, stdin if empty or -")
	flags.String("prime", params.ReferencePrimeString, "field modulus used when the input names none")
	flags.IntP("workers", "w", 1, "interpolation workers, 0 for one per CPU")
	flags.String("witness", detect.UnionOfWitnesses.String(), "valid share policy, union or first")
	flags.Bool("skip-degenerate", false, "skip subsets with duplicate x instead of failing")
	flags.Bool("allow-undecidable", false, "accept a result where every secret has a single vote")
	flags.Uint64("max-subsets", 0, "refuse inputs with more subsets than this, 0 for no limit")
	flags.StringP("format", "f", "text", "output format, text or json")
	flags.Bool("debug", false, "debug logging")
	flags.StringP("config", "c", "", "yaml config file")
	return cmd
}

// loadConfig merges the flag set, the environment and the config file.
func loadConfig(settings *viper.Viper, flags *pflag.FlagSet) (config, error) {
	if err := settings.BindPFlags(flags); err != nil {
		return config{}, errors.Wrap(err, "bind flags")
	}
	settings.SetEnvPrefix("SHAMIRVOTE")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	if path := settings.GetString("config"); path != "" {
		settings.SetConfigFile(path)
		if err := settings.ReadInConfig(); err != nil {
			return config{}, errors.Wrapf(err, "read config %q", path)
		}
	}

	var cfg config
	if err := settings.Unmarshal(&cfg); err != nil {
		return config{}, errors.Wrap(err, "decode settings")
	}
	return cfg, nil
}

// run decodes the share set, detects corrupt shares and writes the report.
func run(ctx context.Context, cfg config, in io.Reader, out io.Writer, logger *zap.Logger) error {
	prime, ok := new(big.Int).SetString(cfg.Prime, 10)
	if !ok {
		return errors.Errorf("prime %q is not a decimal integer", cfg.Prime)
	}

	problem, err := decodeProblem(cfg.Input, in, input.Options{DefaultPrime: prime})
	if err != nil {
		return err
	}
	if !params.ValidModulus(problem.Field.Prime()) {
		logger.Warn("modulus is not prime, interpolation may fail", zap.String("field", problem.Field.String()))
	}

	opts, err := detectOptions(cfg, logger)
	if err != nil {
		return err
	}

	logger.Debug("detecting",
		zap.Int("n", problem.N),
		zap.Int("k", problem.K),
		zap.String("field", problem.Field.String()),
		zap.Int("workers", cfg.Workers))

	var result detect.Result
	if cfg.Workers == 1 {
		result, err = detect.Detect(problem.Shares, problem.K, problem.Field, opts...)
	} else {
		result, err = detect.DetectParallel(ctx, problem.Shares, problem.K, problem.Field, cfg.Workers, opts...)
	}
	if err != nil {
		return errors.Wrap(err, "detect corrupt shares")
	}

	switch cfg.Format {
	case "text":
		return report.Text(out, result)
	case "json":
		return report.JSON(out, result)
	default:
		return errors.Errorf("unknown format %q", cfg.Format)
	}
}

func decodeProblem(path string, in io.Reader, opts input.Options) (input.Problem, error) {
	if path == "" || path == "-" {
		p, err := input.Decode(in, opts)
		return p, errors.Wrap(err, "decode stdin")
	}
	return input.Load(path, opts)
}

func detectOptions(cfg config, logger *zap.Logger) ([]detect.Option, error) {
	witness, err := detect.ParseWitnessPolicy(cfg.Witness)
	if err != nil {
		return nil, errors.Wrap(err, "witness")
	}
	opts := []detect.Option{
		detect.WithLogger(logger),
		detect.WithWitnessPolicy(witness),
	}
	if cfg.SkipDegenerate {
		opts = append(opts, detect.WithDegeneratePolicy(detect.SkipDegenerate))
	}
	if cfg.AllowUndecidable {
		opts = append(opts, detect.AllowUndecidable())
	}
	if cfg.MaxSubsets > 0 {
		opts = append(opts, detect.WithMaxSubsets(cfg.MaxSubsets))
	}
	return opts, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		logging.Shared.Error("shamirvote failed", zap.Error(err))
	}
	_ = logging.Shared.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// noExtraArgs rejects positional arguments.
func noExtraArgs(_ *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown args `%v`", args)
	}
	return nil
}

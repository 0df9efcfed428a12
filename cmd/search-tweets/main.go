// search-tweets is a command-line driver for the search API client. All
// parameters can be given as flags or collected in a YAML/TOML config file;
// flags set on the command line override config-file values.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	searchtweets "github.com/twitterdev/search-tweets-go"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "search-tweets",
		Short:         "Query the tweet search API and stream results as ndjson",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile, _ := cmd.Flags().GetString("config-file"); cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config file: %w", err)
				}
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return run(cmd.Context(), v)
		},
	}

	flags := cmd.Flags()
	flags.String("credential-file", "", "YAML file holding your credentials (default ~/.twitter_keys.yaml)")
	flags.String("credential-file-key", searchtweets.DefaultCredentialKey, "top-level key in the credential file for this session")
	flags.Bool("env-overwrite", true, "overwrite file credentials with any set SEARCHTWEETS_* environment variables")
	flags.String("config-file", "", "config file with all parameters; command-line flags override it")
	flags.String("query", "", "search rule, e.g. \"snow has:geo\"")
	flags.String("from-date", "", "start of the search window, e.g. 2023-01-01 or 2023-01-01T12:00")
	flags.String("to-date", "", "end of the search window")
	flags.Int("results-per-call", 0, "page-size hint sent as maxResults (server caps apply)")
	flags.Int("max-results", 500, "total results to return; 0 streams until exhaustion")
	flags.Int("max-pages", 0, "hard cap on API calls; 0 means unbounded")
	flags.String("count-bucket", "", "aggregate counts per minute, hour, or day instead of returning records")
	flags.String("filename-prefix", "", "write results to <prefix>.json instead of stdout")
	flags.Int("results-per-file", 0, "chunk file output into files of this many results")
	flags.Bool("debug", false, "print debug-level logging")

	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(v.GetBool("debug"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	query := v.GetString("query")
	if query == "" {
		return fmt.Errorf("a query is required (--query or config file)")
	}

	creds, err := searchtweets.LoadCredentials(
		v.GetString("credential-file"),
		v.GetString("credential-file-key"),
		v.GetBool("env-overwrite"),
	)
	if err != nil {
		return err
	}

	payload, err := searchtweets.NewRulePayload(query, searchtweets.RuleOptions{
		FromDate:       v.GetString("from-date"),
		ToDate:         v.GetString("to-date"),
		ResultsPerCall: v.GetInt("results-per-call"),
		CountBucket:    v.GetString("count-bucket"),
	})
	if err != nil {
		return err
	}

	executor := searchtweets.NewRequestExecutor(searchtweets.Config{Logger: logger})
	rs, err := searchtweets.NewResultStream(creds, payload, searchtweets.StreamConfig{
		MaxResults: v.GetInt("max-results"),
		MaxPages:   v.GetInt("max-pages"),
		Executor:   executor,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		logger.Debug("session finished",
			zap.Duration("elapsed", time.Since(start)),
			zap.Int64("requests", searchtweets.DefaultSessionCounter.Count()))
	}()

	if rs.IsCounts() {
		return runCounts(ctx, rs)
	}
	return runSearch(ctx, v, rs, logger)
}

func runSearch(ctx context.Context, v *viper.Viper, rs *searchtweets.ResultStream, logger *zap.Logger) error {
	it := rs.Stream()
	defer it.Stop()

	if prefix := v.GetString("filename-prefix"); prefix != "" {
		writer := &searchtweets.StreamWriter{
			Prefix:         prefix,
			ResultsPerFile: v.GetInt("results-per-file"),
			Logger:         logger,
		}
		n, err := writer.Write(ctx, it)
		if err != nil {
			return fmt.Errorf("stream failed after %d results: %w", n, err)
		}
		logger.Info("wrote results", zap.Int("count", n))
		return nil
	}

	n, err := searchtweets.WriteNDJSON(ctx, os.Stdout, it)
	if err != nil {
		return fmt.Errorf("stream failed after %d results: %w", n, err)
	}
	return nil
}

func runCounts(ctx context.Context, rs *searchtweets.ResultStream) error {
	buckets, err := rs.CollectCounts(ctx)
	for _, b := range buckets {
		line, mErr := json.Marshal(b)
		if mErr != nil {
			return mErr
		}
		fmt.Println(string(line))
	}
	if err != nil {
		return fmt.Errorf("counts stream failed after %d buckets: %w", len(buckets), err)
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"NewsRelay/internal/app"
	"NewsRelay/internal/config"
	"NewsRelay/internal/domain"
	"NewsRelay/internal/infrastructure/storage"
	"NewsRelay/internal/logging"
)

var version = "dev"

var (
	configPath  string
	logLevel    string
	sourceNames []string

	cfg    config.Config
	logger *slog.Logger
	flush  = func() {}
)

func main() {
	err := rootCmd.Execute()
	flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "newsrelay",
	Short:         "Summarize news homepages into a Telegram channel",
	Long:          "NewsRelay scrapes configured news homepages, summarizes unseen articles with an LLM and posts them to Telegram.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logger = logging.New(cfg.Logging.Level)
		if cfg.Logging.SentryDSN != "" {
			wrapped, flushSentry, err := logging.WithSentry(logger, cfg.Logging.SentryDSN, version)
			if err != nil {
				logger.Warn("sentry disabled", "error", err)
			} else {
				logger, flush = wrapped, flushSentry
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default $NEWSRELAY_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringSliceVarP(&sourceNames, "source", "s", nil, "Only process these configured sources (repeatable)")

	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 0, "Time between cycles (default from config)")
	daemonCmd.Flags().IntVar(&daemonBatch, "batch", -1, "Sources per cycle, 0 for all (default from config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(postedCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsrelay", version)
	},
}

// --- run command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every selected source once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		application, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer application.Close()

		results, err := application.RunOnce(ctx)
		if err != nil {
			return err
		}
		printReport(results)
		return nil
	},
}

// --- daemon command ---

var (
	daemonInterval time.Duration
	daemonBatch    int
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run cycles on an interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		application, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer application.Close()

		interval := daemonInterval
		if interval <= 0 {
			interval = cfg.Scheduler.IntervalDuration()
		}
		batch := daemonBatch
		if batch < 0 {
			batch = cfg.Scheduler.Batch
		}
		return application.RunDaemon(ctx, interval, batch)
	},
}

// --- sources command ---

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := cfg.ResolveSources()
		if err != nil {
			return err
		}
		selected, err := config.SelectSources(all, sourceNames)
		if err != nil {
			return err
		}
		for _, s := range config.DomainSources(selected) {
			fmt.Printf("%-22s %-9s %-12s %s\n", s.Name, s.Scanner, s.Extractor, s.URL)
		}
		return nil
	},
}

// --- posted command ---

var postedCmd = &cobra.Command{
	Use:   "posted",
	Short: "List URLs recorded as posted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer store.Close()

		urls, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("listing posted urls: %w", err)
		}
		for _, u := range urls {
			fmt.Println(u)
		}
		fmt.Fprintf(os.Stderr, "%d posted\n", len(urls))
		return nil
	},
}

func newApplication(ctx context.Context) (*app.Application, error) {
	application, err := app.New(ctx, cfg, app.Options{SourceNames: sourceNames}, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return nil, err
	}
	return application, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printReport(results []domain.Result) {
	counts := domain.Tally(results)
	outcomes := make([]string, 0, len(counts))
	skipped := 0
	for o, n := range counts {
		outcomes = append(outcomes, string(o))
		if o.Skipped() {
			skipped += n
		}
	}
	sort.Strings(outcomes)

	fmt.Printf("Processed %d candidates (%d skipped)\n", len(results), skipped)
	for _, o := range outcomes {
		fmt.Printf("  %s: %d\n", o, counts[domain.Outcome(o)])
	}
}

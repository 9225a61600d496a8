package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/younsl/bucketwatch/internal/app"
	"github.com/younsl/bucketwatch/internal/config"
	"github.com/younsl/bucketwatch/internal/version"
	"github.com/younsl/bucketwatch/pkg/aws"
	"github.com/younsl/bucketwatch/pkg/logger"
	"github.com/younsl/bucketwatch/pkg/minio"
	"github.com/younsl/bucketwatch/pkg/notify"
	"github.com/younsl/bucketwatch/pkg/storage"
	"github.com/younsl/bucketwatch/pkg/utils"
)

type options struct {
	configPath  string
	verbosity   int
	noNotify    bool
	logJSON     bool
	showVersion bool
}

func main() {
	os.Exit(execute())
}

func execute() int {
	var opts options
	exitCode := app.ExitOK

	rootCmd := &cobra.Command{
		Use:   "bucketwatch",
		Short: "Check that backup buckets keep receiving new objects",
		Long: `bucketwatch audits object storage buckets and fails when a bucket has
no object modified within the configured number of days. Stale buckets are
reported through Pushover and email.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			// If version flag is set, print version info and exit
			if opts.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
				return
			}
			exitCode = run(cmd.Context(), opts)
		},
	}

	rootCmd.Flags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (repeatable: -v info, -vv debug, -vvv trace)")
	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", "config.ini", "Path to the INI configuration file")
	rootCmd.Flags().BoolVar(&opts.noNotify, "no-notify", false, "Audit and print results without sending notifications")
	rootCmd.Flags().BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON lines instead of console output")
	rootCmd.Flags().BoolVar(&opts.showVersion, "version", false, "Show version information")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return app.ExitFailure
	}
	return exitCode
}

func run(ctx context.Context, opts options) int {
	log := logger.New(os.Stderr, opts.verbosity)
	if opts.logJSON {
		log = logger.NewJSON(os.Stderr, opts.verbosity)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Error().Err(err).Str("config", opts.configPath).Msg("Failed to load configuration")
		return app.ExitFailure
	}

	store, awsOpts, err := newStore(ctx, cfg.Storage, log)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to create storage client")
		return app.ExitFailure
	}

	deps := app.Deps{
		Config:    cfg,
		Store:     store,
		Out:       os.Stdout,
		Log:       log,
		Verbosity: opts.verbosity,
	}

	if cfg.CloudWatch != nil {
		publisher, err := aws.NewMetricsPublisher(ctx, awsOpts, cfg.CloudWatch.Namespace)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create metrics publisher")
			return app.ExitFailure
		}
		deps.Metrics = publisher
	}

	if opts.noNotify {
		log.Info().Msg("Notifications disabled by --no-notify")
	} else {
		log.Debug().Strs("channels", cfg.Channels()).Msg("Notification channels configured")
		deps.Notifier = notify.New(cfg.Message.Template, log, channels(cfg)...)
	}

	// Spinner only when nothing else is written to the terminal while scanning
	if opts.verbosity == 0 && !opts.logJSON {
		deps.Progress = newSpinnerProgress(os.Stderr)
	}

	return app.Run(ctx, deps)
}

// newStore creates the configured storage backend. The AWS options are also
// returned so the metrics publisher shares region and credentials.
func newStore(ctx context.Context, sc config.StorageConfig, log zerolog.Logger) (storage.Store, aws.Options, error) {
	switch sc.Backend {
	case config.BackendMinIO:
		mopts, unknown, err := minio.OptionsFromMap(sc.Options)
		if err != nil {
			return nil, aws.Options{}, err
		}
		warnUnknown(log, unknown)

		client, err := minio.New(mopts)
		if err != nil {
			return nil, aws.Options{}, err
		}
		return client, aws.Options{Region: mopts.Region}, nil

	default:
		aopts, unknown, err := aws.OptionsFromMap(sc.Options)
		if err != nil {
			return nil, aws.Options{}, err
		}
		warnUnknown(log, unknown)

		if aopts.Region != "" && aopts.Endpoint == "" && !utils.IsValidRegion(aopts.Region) {
			log.Warn().Str("region", aopts.Region).Msg("Unknown AWS region")
		}

		client, err := aws.NewS3Client(ctx, aopts)
		if err != nil {
			return nil, aws.Options{}, err
		}
		return client, aopts, nil
	}
}

func channels(cfg *config.Config) []notify.Channel {
	var chs []notify.Channel
	if cfg.Pushover != nil {
		chs = append(chs, notify.NewPushover(cfg.Pushover.App, cfg.Pushover.User))
	}
	if e := cfg.Email; e != nil {
		chs = append(chs, notify.NewEmail(e.Server, e.From, e.To, e.Subject, e.Username, e.Password))
	}
	return chs
}

func warnUnknown(log zerolog.Logger, keys []string) {
	for _, key := range keys {
		log.Warn().Str("key", key).Msg("Ignoring unknown storage option")
	}
}

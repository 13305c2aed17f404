// Command geodata maintains the French cities dataset consumed by the
// frontend.
//
// Usage:
//
//	geodata fetch-from-official-source
//	geodata add-arrondissements
//	geodata add-departments
//	geodata remove-duplicates
//	geodata geocode --workers 8 --max 500
//	geodata publish
//	geodata remove-duplicates --file /tmp/french-cities.json
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/config"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/db"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/geoapi"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/geocode"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/logging"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/pipeline"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/seed"
)

// logOutput receives every log line, including the final failure; stdout
// stays free for command output.
var logOutput io.Writer = os.Stderr

var (
	logger   = slog.Default()
	filePath string
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
func run(args []string) int {
	logger = logging.New(logOutput, "info", "text")
	filePath = ""

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "geodata",
		Short:         "French cities dataset maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&filePath, "file", "", "Dataset path (default $GEODATA_FILE or "+config.DefaultDatasetPath+")")

	root.AddCommand(fetchCmd())
	root.AddCommand(addArrondissementsCmd())
	root.AddCommand(addDepartmentsCmd())
	root.AddCommand(removeDuplicatesCmd())
	root.AddCommand(geocodeCmd())
	root.AddCommand(publishCmd())
	return root
}

// --------------------------------------------------------------------------
// Dataset commands
// --------------------------------------------------------------------------

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-from-official-source",
		Short: "Rebuild the dataset from geo.api.gouv.fr, keeping known coordinates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataset(func(ctx context.Context, cfg *config.Config) error {
				client := geoapi.NewClient(cfg.GeoAPIURL, cfg.GeoAPITimeout, cfg.GeoAPIRequestsPerMin, logger)
				start := time.Now()
				sum, err := seed.FetchFromOfficialSource(ctx, cfg.DatasetPath, client, logger)
				if err != nil {
					return err
				}
				logSummary("Fetch finished", cfg.DatasetPath, start, sum)
				return nil
			})
		},
	}
}

func addArrondissementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-arrondissements",
		Short: "Replace Paris, Lyon and Marseille arrondissements with the reference table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataset(func(ctx context.Context, cfg *config.Config) error {
				start := time.Now()
				sum, err := seed.AddArrondissements(cfg.DatasetPath, logger)
				if err != nil {
					return err
				}
				logSummary("Arrondissements finished", cfg.DatasetPath, start, sum)
				return nil
			})
		},
	}
}

func addDepartmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-departments",
		Short: "Add the departments missing from the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataset(func(ctx context.Context, cfg *config.Config) error {
				start := time.Now()
				sum, err := seed.AddDepartments(cfg.DatasetPath, logger)
				if err != nil {
					return err
				}
				logSummary("Departments finished", cfg.DatasetPath, start, sum)
				return nil
			})
		},
	}
}

func removeDuplicatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-duplicates",
		Short: "Keep one record per place name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataset(func(ctx context.Context, cfg *config.Config) error {
				start := time.Now()
				sum, err := seed.RemoveDuplicates(cfg.DatasetPath, logger)
				if err != nil {
					return err
				}
				logSummary("Deduplication finished", cfg.DatasetPath, start, sum)
				return nil
			})
		},
	}
}

func geocodeCmd() *cobra.Command {
	var workers, maxRecords int
	cmd := &cobra.Command{
		Use:   "geocode",
		Short: "Back-fill missing coordinates from the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataset(func(ctx context.Context, cfg *config.Config) error {
				if workers <= 0 {
					workers = cfg.GeocodeWorkers
				}
				client := geoapi.NewClient(cfg.GeoAPIURL, cfg.GeoAPITimeout, cfg.GeoAPIRequestsPerMin, logger)
				start := time.Now()
				sum, result, err := seed.Geocode(ctx, cfg.DatasetPath, client,
					geocode.Options{Workers: workers, Max: maxRecords}, logger)
				logger.Info("Geocode result", "summary", result.Summary())
				if err != nil {
					return err
				}
				logSummary("Geocode finished", cfg.DatasetPath, start, sum)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent lookups (default $GEOCODE_WORKERS)")
	cmd.Flags().IntVar(&maxRecords, "max", 0, "Maximum records to attempt (0 = all)")
	return cmd
}

func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Mirror the dataset into Postgres and notify running APIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataset(func(ctx context.Context, cfg *config.Config) error {
				pool, err := db.New(ctx, cfg)
				if err != nil {
					return fmt.Errorf("connect to database: %w", err)
				}
				defer pool.Close()

				result, err := seed.Publish(ctx, cfg.DatasetPath, pool.Pool, logger)
				if err != nil {
					return err
				}
				logger.Info("Publish finished", "file", cfg.DatasetPath, "summary", result.Summary())
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// runDataset loads config, applies --file, sets up logging and runs fn with
// a context cancelled on SIGINT/SIGTERM.
func runDataset(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if filePath != "" {
		cfg.DatasetPath = filePath
	}

	logger = logging.New(logOutput, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	return fn(ctx, cfg)
}

func logSummary(msg, path string, start time.Time, sum pipeline.Summary) {
	logger.Info(msg,
		"file", path,
		"duration", time.Since(start).Round(time.Millisecond),
		"records", sum.After,
		"missing_coordinates", sum.MissingCoordinates,
		"summary", sum.String())
	for _, e := range sum.Errors {
		logger.Error("run error", "error", e)
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/preplate/preplate/internal/canteen"
	"github.com/preplate/preplate/internal/events"
	"github.com/preplate/preplate/internal/ledger"
	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/internal/store"
	"github.com/preplate/preplate/pkg/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "preplate",
	Short: "Order and live-capacity coordination core for a campus canteen",
	Long: `preplate runs the shared-state coordination core of a campus canteen:
order lifecycle, pickup slot capacity, booking pause, live crowd analytics
and the next-day menu poll, synchronised over a shared document store.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := runService(cfg); err != nil && err != context.Canceled {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./preplate.yaml)")

	rootCmd.Flags().String("store-backend", "memory", "shared store backend: memory or postgres")
	rootCmd.Flags().String("ledger-path", "preplate.db", "path to the local durable ledger")
	rootCmd.Flags().String("event-output", "none", "lifecycle event output: none, console or kafka")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().Int("serving-rate-per-minute", 3, "counter throughput used for wait estimates")

	viper.BindPFlags(rootCmd.Flags())
}

func runService(cfg *models.Config) error {
	logger := logging.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	led, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer led.Close()

	out, err := events.NewOutput(cfg)
	if err != nil {
		return err
	}
	defer out.Close()

	svc := canteen.NewService(cfg, st, led, out)

	logger.WithField("backend", cfg.StoreBackend).Info("starting coordination service")
	return svc.Run(ctx)
}

func openStore(ctx context.Context, cfg *models.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.Postgres.ConnString())
	case "", "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

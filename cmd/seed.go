package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/preplate/preplate/internal/factories"
	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/pkg/logging"
)

var (
	seedOrders int
	seedPolls  int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the shared store with demo orders and poll items",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := runSeed(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOrders, "orders", 20, "number of demo orders to create")
	seedCmd.Flags().IntVar(&seedPolls, "poll-items", 4, "number of poll items to create")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cfg *models.Config) error {
	logger := logging.GetLogger()
	ctx := context.Background()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	menu := factories.DefaultMenu()
	slots := cfg.TimeSlots

	orderFactory := &factories.OrderFactory{}
	for i := 0; i < seedOrders; i++ {
		order := orderFactory.CreateOrder(menu, slots)
		if _, err := st.Create(ctx, models.CollectionOrders, order.Document()); err != nil {
			return err
		}
	}

	pollFactory := &factories.PollItemFactory{}
	for i := 0; i < seedPolls; i++ {
		item := pollFactory.CreatePollItem()
		if _, err := st.Create(ctx, models.CollectionPolls, item.Document()); err != nil {
			return err
		}
	}

	settings := models.BookingSettings{}
	if _, err := st.Create(ctx, models.CollectionSettings, settings.Document()); err != nil {
		return err
	}

	logger.WithField("orders", seedOrders).WithField("poll_items", seedPolls).Info("seeded demo data")
	return nil
}

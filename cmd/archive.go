package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/preplate/preplate/internal/archive"
	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/pkg/logging"
)

var archiveServedOnly bool

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Export the order history to day-partitioned parquet files",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := runArchive(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	archiveCmd.Flags().BoolVar(&archiveServedOnly, "served-only", false, "archive only orders that were served")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cfg *models.Config) error {
	logger := logging.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	sub, err := st.Subscribe(ctx, models.CollectionOrders, "createdAt")
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	// the first emission is the full current collection
	var orders []models.Order
	select {
	case snap, ok := <-sub.C:
		if !ok {
			return fmt.Errorf("order subscription closed before first snapshot")
		}
		for _, doc := range snap.Docs {
			order, err := models.OrderFromDocument(doc)
			if err != nil {
				logger.Warnf("skipping malformed order document: %v", err)
				continue
			}
			if archiveServedOnly && order.Pending() {
				continue
			}
			orders = append(orders, order)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	exporter, err := archive.NewExporter(cfg.Archive)
	if err != nil {
		return err
	}
	archived, err := exporter.Export(orders)
	if err != nil {
		return err
	}

	logger.WithField("orders", archived).Info("archive complete")
	return nil
}

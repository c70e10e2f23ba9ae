package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preplate/preplate/internal/models"
)

func TestExportPartitionsByDay(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(models.ArchiveConfig{
		OutputPath:  dir,
		Folder:      "orders",
		Destination: "local",
	})
	require.NoError(t, err)

	day1 := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: "ORD-1", Status: models.OrderStatusServed, TotalAmount: 130, CreatedAt: day1, ServedAt: day1.Add(10 * time.Minute)},
		{ID: "ORD-2", Status: models.OrderStatusPending, TotalAmount: 40, CreatedAt: day1},
		{ID: "ORD-3", Status: models.OrderStatusServed, TotalAmount: 90, CreatedAt: day2, ServedAt: day2.Add(5 * time.Minute)},
	}

	archived, err := exporter.Export(orders)
	require.NoError(t, err)
	assert.Equal(t, 3, archived)

	for _, day := range []string{"2026-08-27", "2026-08-28"} {
		path := filepath.Join(dir, "orders", "day="+day, "orders.parquet")
		info, err := os.Stat(path)
		require.NoError(t, err, "missing partition for %s", day)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExporterRejectsUnknownProvider(t *testing.T) {
	_, err := NewExporter(models.ArchiveConfig{
		Destination:  "cloud",
		CloudStorage: models.CloudStorageConfig{Provider: "ftp"},
	})
	assert.Error(t, err)
}

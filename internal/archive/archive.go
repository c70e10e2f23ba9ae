package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/preplate/preplate/internal/cloudwriter"
	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/pkg/logging"
)

// orderRecord is the flattened parquet row for one order. Items are folded
// into a count plus the frozen total; the line detail stays in the store.
type orderRecord struct {
	OrderID     string  `parquet:"name=order_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserID      string  `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserName    string  `parquet:"name=user_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Slot        string  `parquet:"name=slot, type=BYTE_ARRAY, convertedtype=UTF8"`
	Status      string  `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
	ItemCount   int32   `parquet:"name=item_count, type=INT32"`
	TotalAmount float64 `parquet:"name=total_amount, type=DOUBLE"`
	CreatedAt   int64   `parquet:"name=created_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	ServedAt    int64   `parquet:"name=served_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

// Exporter writes day-partitioned parquet snapshots of the order history,
// either to the local filesystem or to a cloud bucket.
type Exporter struct {
	cfg     models.ArchiveConfig
	factory cloudwriter.CloudWriterFactory
	logger  *logrus.Logger
}

func NewExporter(cfg models.ArchiveConfig) (*Exporter, error) {
	e := &Exporter{cfg: cfg, logger: logging.GetLogger()}

	if cfg.Destination != "" && cfg.Destination != "local" {
		switch cfg.CloudStorage.Provider {
		case "s3":
			factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
			if err != nil {
				return nil, errors.Wrap(err, "creating cloud writer factory")
			}
			e.factory = factory
		default:
			return nil, errors.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
	}
	return e, nil
}

// Export writes one parquet file per calendar day of order activity. It
// returns the number of archived orders.
func (e *Exporter) Export(orders []models.Order) (int, error) {
	byDay := make(map[string][]models.Order)
	for _, o := range orders {
		day := o.CreatedAt.Format("2006-01-02")
		byDay[day] = append(byDay[day], o)
	}

	archived := 0
	for day, dayOrders := range byDay {
		if err := e.exportDay(day, dayOrders); err != nil {
			return archived, errors.Wrapf(err, "archiving orders for %s", day)
		}
		archived += len(dayOrders)
		e.logger.WithFields(logrus.Fields{
			"day":    day,
			"orders": len(dayOrders),
		}).Info("archived order partition")
	}
	return archived, nil
}

func (e *Exporter) exportDay(day string, orders []models.Order) error {
	fw, err := e.openPartition(day)
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, new(orderRecord), 4)
	if err != nil {
		fw.Close()
		return errors.Wrap(err, "creating parquet writer")
	}

	for _, o := range orders {
		rec := orderRecord{
			OrderID:     o.ID,
			UserID:      o.UserID,
			UserName:    o.User,
			Slot:        o.Slot,
			Status:      o.Status,
			ItemCount:   int32(len(o.Items)),
			TotalAmount: o.TotalAmount,
			CreatedAt:   o.CreatedAt.UnixMilli(),
		}
		if !o.ServedAt.IsZero() {
			rec.ServedAt = o.ServedAt.UnixMilli()
		}
		if err := pw.Write(rec); err != nil {
			fw.Close()
			return errors.Wrap(err, "writing order record")
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return errors.Wrap(err, "finalising parquet file")
	}
	return fw.Close()
}

func (e *Exporter) openPartition(day string) (source.ParquetFile, error) {
	objectPath := filepath.Join(e.cfg.Folder, fmt.Sprintf("day=%s", day), "orders.parquet")

	if e.factory != nil {
		cw, err := e.factory.NewWriter(e.cfg.CloudStorage.BucketName, objectPath)
		if err != nil {
			return nil, errors.Wrap(err, "creating cloud object writer")
		}
		return newCloudParquetFile(cw), nil
	}

	fullPath := filepath.Join(e.cfg.OutputPath, objectPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "creating partition directory")
	}
	fw, err := local.NewLocalFileWriter(fullPath)
	if err != nil {
		return nil, errors.Wrap(err, "creating local parquet file")
	}
	return fw, nil
}

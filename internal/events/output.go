package events

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/pkg/logging"
)

// Output receives serialized lifecycle events. The stream is observational:
// a failed write never blocks or fails the operation that produced it.
type Output interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// NewOutput builds the configured event output. "none" (the default) yields
// a no-op sink.
func NewOutput(cfg *models.Config) (Output, error) {
	switch cfg.EventOutput {
	case "", "none":
		return &NopOutput{}, nil
	case "console":
		return &ConsoleOutput{}, nil
	case "kafka":
		return NewKafkaOutput(cfg)
	case "postgres":
		return NewPostgresOutput(&cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown event output %q", cfg.EventOutput)
	}
}

type NopOutput struct{}

func (n *NopOutput) WriteMessage(string, []byte) error { return nil }
func (n *NopOutput) Close() error                      { return nil }

type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	output := fmt.Sprintf("[%s] %s\n", topic, string(msg))
	if _, err := os.Stdout.Write([]byte(output)); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	_ = os.Stdout.Sync()
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

type KafkaOutput struct {
	producer sarama.SyncProducer
}

func NewKafkaOutput(cfg *models.Config) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(cfg.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logging.GetLogger().Infof("Kafka event output created with brokers %v", brokerList)
	return &KafkaOutput{producer: producer}, nil
}

func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	if k.producer == nil {
		return fmt.Errorf("Kafka producer is not initialized")
	}
	_, _, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	})
	return err
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	return k.producer.Close()
}

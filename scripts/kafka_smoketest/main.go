package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// RunSmokeTest publishes a transaction event through the Kafka event bus and
// waits for the bus's own consumer group to hand it back.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := config.GetEnv("EVENTBUS_KAFKA_BROKERS", "localhost:9093,localhost:9092")
	topic := config.GetEnv("EVENTBUS_KAFKA_TOPIC", "ledger.events.smoketest")
	groupID := config.GetEnv("EVENTBUS_GROUP", "ledger-smoketest-"+uuid.NewString()[:8])

	ctx, cancel := context.WithTimeout(context.Background(), config.GetEnvAsDuration("SMOKETEST_TIMEOUT", 30*time.Second))
	defer cancel()

	if err := ensureTopic(ctx, strings.Split(brokers, ",")[0], topic); err != nil {
		logger.Error("create topic failed", "topic", topic, "error", err)
		return err
	}
	logger.Info("topic ready", "topic", topic)

	bus, err := infra_eventbus.NewWithKafka(brokers, logger, &infra_eventbus.KafkaEventBusConfig{
		GroupID: groupID,
		Topic:   topic,
	})
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	txID := "SMOKE-" + uuid.NewString()[:8]
	received := make(chan *events.TransactionEvent, 1)
	bus.Register(events.TransactionCreated, func(_ context.Context, e events.Event) error {
		if evt, ok := e.(*events.TransactionEvent); ok && evt.TransactionID == txID {
			select {
			case received <- evt:
			default:
			}
		}
		return nil
	})

	tx := account.NewTransactionFromData(0, txID, "SMOKE-ACCOUNT", decimal.NewFromInt(1), account.Deposit, "smoke test", "done", time.Now().UTC())
	if err := bus.Emit(ctx, events.NewTransactionEvent(events.TransactionCreated, tx, tx.Amount, tx.Amount)); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "transaction_id", txID)

	select {
	case evt := <-received:
		logger.Info("consumed", "transaction_id", evt.TransactionID, "account_number", evt.AccountNumber)
	case <-ctx.Done():
		return fmt.Errorf("event %s not consumed: %w", txID, ctx.Err())
	}

	logger.Info("kafka smoke test passed")
	return nil
}

func ensureTopic(ctx context.Context, broker, topic string) error {
	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", broker)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return err
	}
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

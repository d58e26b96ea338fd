package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Vathanak-H/ScholarAward/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type CleanupConsumerContext struct {
	Config *config.Config
	Logger *zap.SugaredLogger
	S3     *minio.Client
}

// FileCleanupPayload carries the stored paths of attachment objects whose
// database rows are already gone. The consumer deletes the objects from the
// bucket; the database is never touched from here.
type FileCleanupPayload struct {
	Paths     []string `json:"paths"`
	CreatedAt string   `json:"created_at"`
	Try       int      `json:"try" default:"0"`
}

func NewFileCleanupPayload(paths []string) FileCleanupPayload {
	return FileCleanupPayload{
		Paths:     paths,
		Try:       0,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
}

type CleanupJobHandler func(ctx context.Context, jobPayload FileCleanupPayload, app *CleanupConsumerContext) (bool, error)

func (r *RabbitMQ) ConsumeCleanupJob(ctx context.Context, handler CleanupJobHandler, maxWorker int, app *CleanupConsumerContext) error {
	msgs, err := r.Consume(QueueFileCleanup)
	if err != nil {
		return fmt.Errorf("failed to start consuming cleanup jobs: %w", err)
	}

	for i := 0; i < maxWorker; i++ {
		go func(workerNumber int) {
			runCleanupWorker(ctx, r, workerNumber, msgs, handler, app)
		}(i + 1)
	}

	return nil
}

func runCleanupWorker(ctx context.Context, rabbitMQ *RabbitMQ, workerNumber int, msgs <-chan amqp091.Delivery, handler CleanupJobHandler, app *CleanupConsumerContext) {
	for {
		select {
		case <-ctx.Done():
			log.Printf("[Cleanup Worker %d] Shutting down", workerNumber)
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Printf("[Cleanup Worker %d] Message channel closed", workerNumber)
				return
			}
			processCleanupJob(ctx, rabbitMQ, workerNumber, msg, handler, app)
		}
	}
}

func processCleanupJob(ctx context.Context, rabbitMQ *RabbitMQ, workerNumber int, msg amqp091.Delivery, handler CleanupJobHandler, app *CleanupConsumerContext) {
	if msg.Body == nil {
		log.Printf("[Cleanup Worker %d] Received empty message body", workerNumber)
		rabbitMQ.Nack(msg, false)
		return
	}

	var jobPayload FileCleanupPayload
	if err := json.Unmarshal(msg.Body, &jobPayload); err != nil {
		log.Printf("[Cleanup Worker %d] Invalid payload: %v", workerNumber, err)
		rabbitMQ.Nack(msg, false)
		return
	}

	workerPrefix := fmt.Sprintf("[Cleanup Worker %d: Retry %d]", workerNumber, jobPayload.Try)

	shouldRequeue, err := handler(ctx, jobPayload, app)
	if err != nil {
		log.Printf("%s Handler error processing cleanup job for %d paths: %v",
			workerPrefix, len(jobPayload.Paths), err)

		if !shouldRequeue || jobPayload.Try >= MAX_QUEUE_RETRY {
			log.Printf("%s Not requeuing cleanup job after error (retry: %d, shouldRequeue: %v)",
				workerPrefix, jobPayload.Try, shouldRequeue)
			rabbitMQ.Nack(msg, false)
			return
		}

		requeueCleanupJob(rabbitMQ, workerPrefix, msg, jobPayload)
		return
	}

	log.Printf("%s Successfully processed cleanup job for %d paths", workerPrefix, len(jobPayload.Paths))
	rabbitMQ.Ack(msg)
}

func requeueCleanupJob(rabbitMQ *RabbitMQ, workerPrefix string, msg amqp091.Delivery, jobPayload FileCleanupPayload) {
	jobPayload.Try++
	payloadBytes, err := json.Marshal(jobPayload)
	if err != nil {
		log.Printf("%s Failed to marshal cleanup payload for requeue: %v", workerPrefix, err)
		rabbitMQ.Nack(msg, false)
		return
	}

	if err := rabbitMQ.Publish(QueueFileCleanup, payloadBytes); err != nil {
		log.Printf("%s Failed to requeue cleanup job: %v", workerPrefix, err)
		rabbitMQ.Nack(msg, false)
		return
	}

	log.Printf("%s Requeued cleanup job for %d paths", workerPrefix, len(jobPayload.Paths))
	rabbitMQ.Ack(msg)
}

package main

import (
	"context"
	"fmt"

	"github.com/Vathanak-H/ScholarAward/internal/config"
	"github.com/Vathanak-H/ScholarAward/internal/env"
	filestorage "github.com/Vathanak-H/ScholarAward/internal/file_storage"
	"github.com/Vathanak-H/ScholarAward/internal/queue"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/minio/minio-go/v7"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

const (
	MAX_WORKER = 3
)

func main() {
	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)

	s3, err := filestorage.NewMinioClient(&cfg.Minio)
	if err != nil {
		logger.Error("Error connecting to minio")
		logger.Panic(err)
	}

	app := queue.CleanupConsumerContext{
		Config: &cfg,
		Logger: logger,
		S3:     s3,
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Panic("Error connecting to RabbitMQ: ", err)
	}
	logger.Info("RabbitMQ connected \n")
	defer func() {
		if err := rabbitMQ.Close(); err != nil {
			logger.Errorf("Failed to close RabbitMQ connection: %v", err)
		}
	}()

	ctx := context.Background()

	if err := rabbitMQ.ConsumeCleanupJob(ctx, cleanupJobHandler, MAX_WORKER, &app); err != nil {
		logger.Fatalf("Failed to consume cleanup job: %v", err)
	}

	logger.Infof("Started consuming cleanup job")

	// Block forever to keep the consumer running
	select {}
}

// cleanupJobHandler removes each object from the bucket. A missing object is
// treated as already cleaned; any other failure requeues the job.
func cleanupJobHandler(ctx context.Context, jobPayload queue.FileCleanupPayload, app *queue.CleanupConsumerContext) (bool, error) {
	for _, path := range jobPayload.Paths {
		if path == "" {
			continue
		}

		err := app.S3.RemoveObject(ctx, app.Config.Minio.BUCKET, path, minio.RemoveObjectOptions{})
		if err != nil {
			resp := minio.ToErrorResponse(err)
			if resp.Code == "NoSuchKey" {
				continue
			}
			return true, fmt.Errorf("failed to remove object %s: %w", path, err)
		}
	}

	return true, nil
}

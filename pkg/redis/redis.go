package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

const (
	StatusAnalyzing = "analyzing"
	StatusComplete  = "complete"
	StatusFailed    = "failed"
)

// IRedis keeps a short-lived status flag per conversation so a dashboard
// that reconnects after missing the push event can still poll progress.
type IRedis interface {
	SetAnalysisStatus(ctx context.Context, conversationID string, status string, expiration time.Duration) error
	GetAnalysisStatus(ctx context.Context, conversationID string) (string, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func statusKey(conversationID string) string {
	return fmt.Sprintf("analysis_status:%s", conversationID)
}

func (r *redisClient) SetAnalysisStatus(ctx context.Context, conversationID string, status string, expiration time.Duration) error {
	key := statusKey(conversationID)
	err := r.client.Set(ctx, key, status, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error setting analysis status for %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetAnalysisStatus(ctx context.Context, conversationID string) (string, error) {
	key := statusKey(conversationID)
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", err
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting analysis status for %s: %v", key, err))
		return "", err
	}
	return val, nil
}

// IsMissing reports whether the error from GetAnalysisStatus means the flag
// simply expired or was never set.
func IsMissing(err error) bool {
	return errors.Is(err, redis.Nil)
}

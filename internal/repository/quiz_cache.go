package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const loadTimeout = 10 * time.Second

// QuizLoader fetches a quiz from the backing store on a cache miss.
type QuizLoader interface {
	FindActiveByPath(ctx context.Context, path string) (*model.Quiz, error)
}

// QuizCache is a read-through Redis cache of quiz documents keyed by path.
// With a nil client every read goes straight to the loader.
type QuizCache struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
}

func NewQuizCache(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		loader: loader,
		ttl:    ttl,
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, path string) (*model.Quiz, error) {
	if c.client == nil {
		return c.loader.FindActiveByPath(ctx, path)
	}

	if quiz, ok := c.fromCache(ctx, path); ok {
		return quiz, nil
	}

	// The shared load outlives any single caller; each caller stops waiting
	// when its own ctx is done.
	ch := c.sf.DoChan(path, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		// another caller may have filled the key while we waited
		if quiz, ok := c.fromCache(loadCtx, path); ok {
			return quiz, nil
		}

		quiz, err := c.loader.FindActiveByPath(loadCtx, path)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(loadCtx, c.key(path), data, c.ttlWithJitter()).Err(); err != nil {
			logger.Log.Warn("Failed to cache quiz", zap.String("path", path), zap.Error(err))
		}
		return quiz, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// callers must not share the singleflight result
		quiz := *res.Val.(*model.Quiz)
		return &quiz, nil
	}
}

// Invalidate drops the cached copy of the given paths.
func (c *QuizCache) Invalidate(ctx context.Context, paths ...string) error {
	if c.client == nil || len(paths) == 0 {
		return nil
	}
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, c.key(p))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *QuizCache) fromCache(ctx context.Context, path string) (*model.Quiz, bool) {
	data, err := c.client.Get(ctx, c.key(path)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("Quiz cache read failed", zap.String("path", path), zap.Error(err))
		}
		return nil, false
	}

	var quiz model.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		logger.Log.Warn("Dropping corrupt quiz cache entry", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return &quiz, true
}

func (c *QuizCache) key(path string) string {
	return "quiz:path:" + path
}

// ttlWithJitter spreads expiry by up to ±10%.
func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	if jitterMax == 0 {
		return c.ttl
	}
	return c.ttl + time.Duration(rand.Int63n(2*jitterMax+1)-jitterMax)
}

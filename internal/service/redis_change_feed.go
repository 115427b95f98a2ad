package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	domainRepo "go-hospital-internment/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// Redis channel prefix for collection change notifications
	ChangeChannelPrefix = "records:"

	// Timeout for a single publish
	changePublishTimeout = 5 * time.Second
)

// =============================================================================
// Types
// =============================================================================

// RedisChangeFeed notifies every process holding a collection subscription
// that the collection changed, using Redis Pub/Sub.
//
// Payloads carry only the publish time; subscribers re-read the collection,
// so a lost or coalesced message is repaired by the next one.
type RedisChangeFeed struct {
	redisClient *redis.Client
	log         *logrus.Logger

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

var _ domainRepo.ChangeFeed = (*RedisChangeFeed)(nil)

// =============================================================================
// Constructor
// =============================================================================

// NewRedisChangeFeed creates a new RedisChangeFeed.
// Call Stop() during graceful shutdown.
func NewRedisChangeFeed(redisClient *redis.Client, log *logrus.Logger) *RedisChangeFeed {
	return &RedisChangeFeed{
		redisClient: redisClient,
		log:         log,
		stopChan:    make(chan struct{}),
	}
}

// =============================================================================
// Lifecycle Methods
// =============================================================================

// Stop ends every subscription loop.
// Safe to call multiple times.
func (f *RedisChangeFeed) Stop() {
	if f.stopped.CompareAndSwap(false, true) {
		close(f.stopChan)
		f.wg.Wait()
		f.log.Info("RedisChangeFeed stopped")
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// Publish announces a change of the collection
func (f *RedisChangeFeed) Publish(ctx context.Context, collection string) error {
	pubCtx, cancel := context.WithTimeout(ctx, changePublishTimeout)
	defer cancel()

	payload := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := f.redisClient.Publish(pubCtx, channelName(collection), payload).Err(); err != nil {
		return fmt.Errorf("publish change of %s: %w", collection, err)
	}
	return nil
}

// Subscribe calls onChange for every change announced on the collection.
// onChange runs on the feed goroutine; the returned func unsubscribes.
func (f *RedisChangeFeed) Subscribe(ctx context.Context, collection string, onChange func()) (func(), error) {
	if f.stopped.Load() {
		return nil, fmt.Errorf("subscribe to %s: change feed stopped", collection)
	}

	pubsub := f.redisClient.Subscribe(ctx, channelName(collection))

	// Wait for the subscription confirmation so no publish is missed afterwards
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", collection, err)
	}

	done := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := pubsub.Close(); err != nil {
				f.log.Debugf("Failed to close subscription of %s: %+v", collection, err)
			}
		})
	}

	f.wg.Add(1)
	go f.listen(collection, pubsub.Channel(), done, onChange)

	f.log.Debugf("Subscribed to changes of %s", collection)
	return unsubscribe, nil
}

// =============================================================================
// Private Helper Methods
// =============================================================================

func (f *RedisChangeFeed) listen(collection string, messages <-chan *redis.Message, done <-chan struct{}, onChange func()) {
	defer f.wg.Done()

	for {
		select {
		case <-f.stopChan:
			return
		case <-done:
			return
		case _, ok := <-messages:
			if !ok {
				f.log.Debugf("Change channel of %s closed", collection)
				return
			}
			onChange()
		}
	}
}

func channelName(collection string) string {
	return ChangeChannelPrefix + collection
}

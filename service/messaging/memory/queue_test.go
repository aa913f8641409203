package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	ID   int
	Body string
}

func TestQueue_PublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](DefaultConfig())

	assert.Error(t, queue.Publish(ctx, nil))
	assert.NoError(t, queue.Publish(ctx, &payload{ID: 1, Body: "first"}))
	assert.NoError(t, queue.Publish(ctx, &payload{ID: 2, Body: "second"}))

	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, msg.T().ID)
	assert.NoError(t, msg.Ack())
	assert.Error(t, msg.Ack())

	msg, err = queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, msg.T().ID)
	assert.NoError(t, msg.Ack())
}

func TestQueue_ConsumeHonoursContext(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := queue.Consume(ctx)
	assert.Error(t, err)
}

func TestQueue_NackRetriesThenDeadLetters(t *testing.T) {
	ctx := context.Background()
	config := Config{MaxRetries: 1, RetryDelay: time.Millisecond, DeadLetter: true, QueueBuffer: 10}
	queue := NewQueue[payload](config)

	assert.NoError(t, queue.Publish(ctx, &payload{ID: 7}))

	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NoError(t, msg.Nack(errors.New("boom")))

	// the retry copy is redelivered
	retryCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	msg, err = queue.Consume(retryCtx)
	assert.NoError(t, err)
	assert.Equal(t, 7, msg.T().ID)

	// a second failure exceeds the limit and lands in the dead letter list
	assert.NoError(t, msg.Nack(errors.New("boom again")))
	assert.Eventually(t, func() bool {
		return len(queue.DeadLetters()) == 1
	}, time.Second, 10*time.Millisecond)
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	ID string
}

func TestQueue_PublishConsume(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx := context.Background()

	assert.Nil(t, queue.Publish(ctx, &payload{ID: "1"}))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	assert.Nil(t, err)
	assert.Equal(t, "1", message.T().ID)
	assert.Nil(t, message.Ack())
	assert.NotNil(t, message.Ack(), "double ack is refused")
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_Consume_Cancelled(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_Nack_RetriesThenDeadLetters(t *testing.T) {
	config := Config{MaxRetries: 1, RetryDelay: time.Millisecond, DeadLetter: true, QueueBuffer: 4}
	queue := NewQueue[payload](config)
	ctx := context.Background()

	assert.Nil(t, queue.Publish(ctx, &payload{ID: "1"}))

	message, err := queue.Consume(ctx)
	assert.Nil(t, err)
	assert.Nil(t, message.Nack(errors.New("boom")))

	// first nack republishes after the retry delay
	retryCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	message, err = queue.Consume(retryCtx)
	assert.Nil(t, err)
	assert.Equal(t, "1", message.T().ID)

	// second nack exceeds MaxRetries and dead-letters
	assert.Nil(t, message.Nack(errors.New("boom again")))
	assert.Equal(t, 1, queue.DLQSize())
}

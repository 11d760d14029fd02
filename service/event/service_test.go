package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/procsim/procsim/model/process"
)

func TestService_TypedPublishSubscribe(t *testing.T) {
	srv := New()

	var mu sync.Mutex
	var received []*Event[*process.Snapshot]
	err := SetListenerOf(srv, func(e *Event[*process.Snapshot]) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})
	assert.Nil(t, err)

	publisher, err := PublisherOf[*process.Snapshot](srv)
	assert.Nil(t, err)

	snapshot := &process.Snapshot{ID: "p/1", Name: "p", State: process.StateReady}
	eCtx := &Context{ProcessID: "p/1", EventType: TypeCreated}
	assert.Nil(t, publisher.Publish(context.Background(), NewEvent(eCtx, snapshot)))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, TypeCreated, received[0].Context.EventType)
	assert.Equal(t, "p/1", received[0].Data.ID)
}

func TestService_AnyListenerMirrorsTypedEvents(t *testing.T) {
	srv := New()

	var mu sync.Mutex
	var types []string
	srv.SetListener(func(e *Event[any]) {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, e.Context.EventType)
	})

	publisher, err := PublisherOf[*process.Snapshot](srv)
	assert.Nil(t, err)
	assert.Nil(t, publisher.Publish(context.Background(),
		NewEvent(&Context{ProcessID: "p/1", EventType: TypeTerminated}, &process.Snapshot{ID: "p/1"})))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(types) == 1 && types[0] == TypeTerminated
	}, time.Second, 5*time.Millisecond)
}

func TestPublisherOf_ReturnsSameInstance(t *testing.T) {
	srv := New()
	first, err := PublisherOf[*process.Snapshot](srv)
	assert.Nil(t, err)
	second, err := PublisherOf[*process.Snapshot](srv)
	assert.Nil(t, err)
	assert.Same(t, first, second)
}

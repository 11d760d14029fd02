package event

import "time"

// Lifecycle event types emitted by the manager and the engine.
const (
	TypeCreated    = "created"
	TypeTerminated = "terminated"
	TypeBlocked    = "blocked"
	TypeUnblocked  = "unblocked"
	TypeDispatched = "dispatched"
	TypeSkipped    = "skipped"
	TypeSlice      = "slice"
)

// Context identifies what a lifecycle event relates to.
type Context struct {
	ProcessID   string `json:"processID"`
	Kind        string `json:"kind,omitempty"`
	EventType   string `json:"eventType"`
	TimeTakenMs int    `json:"timeTakenMs,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

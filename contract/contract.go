//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-wire/domain/event"
	"context"
	"reflect"
)

// EventSink consumes domain events. Implementations must be safe for
// concurrent use and must not block longer than the provided context.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Session is the registry-facing view of one live connection.
// Kick tears the connection down when a newer session for the same
// user supersedes it; the kicked session's disconnect handler still
// runs but can no longer evict the newer registration.
type Session interface {
	EventSink
	Kick()
}

// Registry maps each user to at most one current session.
type Registry interface {
	Register(userID string, s Session) (epoch uint64, superseded Session)
	Unregister(userID string, epoch uint64) bool
	Lookup(userID string) (Session, bool)
	Online() []string
}

type WorkerName string

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

type Supervisor interface {
	Add(worker ...Worker) Supervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

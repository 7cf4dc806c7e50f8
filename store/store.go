// Package store persists events. The EventStore interface has two
// backends: Mongo for the running site and an in-memory map for tests and
// local hacking without a database.
package store

import (
	"context"
	"errors"

	models "github.com/jutlandia/jutlandia-site-go/models"
)

// ErrNotFound is returned when an event id has no record.
var ErrNotFound = errors.New("event not found")

type EventStore interface {
	// ListUpcoming returns events with over=false.
	ListUpcoming(ctx context.Context) ([]models.Event, error)
	// ListFinished returns events with over=true.
	ListFinished(ctx context.Context) ([]models.Event, error)
	// ListAll returns every event, ascending by id.
	ListAll(ctx context.Context) ([]models.Event, error)
	// Get returns one event or ErrNotFound.
	Get(ctx context.Context, id int64) (models.Event, error)
	// Create assigns the next id, persists the event, and returns it.
	Create(ctx context.Context, ev models.Event) (models.Event, error)
	// Update overwrites every field but the id. ErrNotFound if the id
	// has no record.
	Update(ctx context.Context, ev models.Event) error
	// Delete removes the event. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id int64) error
}

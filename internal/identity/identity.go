// Package identity resolves actor IDs to display names. The engine treats
// identity management as an external collaborator; a failed lookup never
// aborts the calling operation, the raw ID is used instead.
package identity

import (
	"context"
	"errors"
)

// ErrUnknownActor indicates the actor ID does not resolve.
var ErrUnknownActor = errors.New("unknown actor")

// Directory resolves actor IDs to display names.
type Directory interface {
	DisplayName(ctx context.Context, actorID string) (string, error)
}

// StaticDirectory is an in-memory Directory, used in tests and stdio mode.
type StaticDirectory map[string]string

func (d StaticDirectory) DisplayName(_ context.Context, actorID string) (string, error) {
	name, ok := d[actorID]
	if !ok {
		return "", ErrUnknownActor
	}
	return name, nil
}

// DisplayNameOrID resolves an actor through dir, falling back to the raw ID
// when dir is nil or the lookup fails.
func DisplayNameOrID(ctx context.Context, dir Directory, actorID string) string {
	if dir == nil {
		return actorID
	}
	name, err := dir.DisplayName(ctx, actorID)
	if err != nil || name == "" {
		return actorID
	}
	return name
}

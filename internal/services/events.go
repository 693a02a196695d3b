package services

import (
	"context"
	"strconv"
	"time"

	"github.com/mg3/promag-api/types"
)

// ChangeNotifier receives an event after every successful mutation.
// Notify must return without waiting for delivery.
type ChangeNotifier interface {
	Notify(ctx context.Context, event types.ChangeEvent)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, types.ChangeEvent) {}

func notifierOrNop(n ChangeNotifier) ChangeNotifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

func emit(ctx context.Context, n ChangeNotifier, now time.Time, entity string, action types.ChangeAction, key string) {
	event := types.ChangeEvent{
		Entity: entity,
		Action: action,
		Key:    key,
		At:     now.UTC(),
	}
	if identity, ok := IdentityFromContext(ctx); ok {
		event.Actor = identity.Username
	}
	n.Notify(ctx, event)
}

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

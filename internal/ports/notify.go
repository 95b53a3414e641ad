package ports

import "github.com/google/uuid"

// Notifier tells subscribers of a project that it changed. Implementations
// must not block the caller beyond enqueueing.
type Notifier interface {
	Broadcast(projectID uuid.UUID)
}

// SubscriptionHandle identifies one registration made with Subscribe.
type SubscriptionHandle struct {
	ProjectID uuid.UUID
	ID        uint64
}

// Subscriptions registers delivery channels under a project. A channel
// owner must Unsubscribe before closing its channel.
type Subscriptions interface {
	Subscribe(projectID uuid.UUID, ch chan<- string) SubscriptionHandle
	// Unsubscribe is idempotent.
	Unsubscribe(h SubscriptionHandle)
}

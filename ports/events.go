package ports

import "context"

// EventPublisher notifies other services about authentication activity.
// Publishing is best-effort everywhere it is called.
type EventPublisher interface {
	PublishSignIn(ctx context.Context, address string, userID string, firstLogin bool) error
	PublishLogout(ctx context.Context, address string, tokenID string) error
}

package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/openclip/walletgate/ports"
)

const (
	SignInTopic = "walletgate.signin"
	LogoutTopic = "walletgate.logout"
)

// SignInEvent notifies other services that a wallet completed sign-in.
type SignInEvent struct {
	Address    string `json:"address"`
	UserID     string `json:"user_id"`
	FirstLogin bool   `json:"first_login"`
}

// LogoutEvent notifies other instances that a session token was revoked.
type LogoutEvent struct {
	Address string `json:"address"`
	TokenID string `json:"token_id"`
}

// WatermillPublisher implements EventPublisher on a watermill publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

var _ ports.EventPublisher = (*WatermillPublisher)(nil)

func (p *WatermillPublisher) PublishSignIn(ctx context.Context, address, userID string, firstLogin bool) error {
	return p.publish(SignInTopic, uuid.New().String(), SignInEvent{
		Address:    address,
		UserID:     userID,
		FirstLogin: firstLogin,
	})
}

func (p *WatermillPublisher) PublishLogout(ctx context.Context, address, tokenID string) error {
	return p.publish(LogoutTopic, tokenID, LogoutEvent{
		Address: address,
		TokenID: tokenID,
	})
}

func (p *WatermillPublisher) publish(topic, msgID string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.publisher.Publish(topic, message.NewMessage(msgID, payload)); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

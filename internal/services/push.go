package services

import (
	"context"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

// PushService sends FCM notifications to admin devices when a new inquiry
// arrives. It is optional; a nil *PushService is a no-op.
type PushService struct {
	app       *firebase.App
	messaging *messaging.Client
}

// NewPushService initialises an FCM client from a service account
// credentials file.
func NewPushService(serviceAccountPath string) (*PushService, error) {
	opt := option.WithCredentialsFile(serviceAccountPath)

	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, err
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		return nil, err
	}

	return &PushService{app: app, messaging: client}, nil
}

func (p *PushService) SendPushNotification(ctx context.Context, token, title, body string) error {
	if p == nil {
		return nil
	}
	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: token,
	}
	_, err := p.messaging.Send(ctx, msg)
	return err
}

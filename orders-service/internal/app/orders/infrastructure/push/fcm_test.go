package push

import (
	"context"
	"errors"
	"testing"

	"umsshop/orders-service/internal/app/orders/entity"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessaging struct {
	sent *messaging.Message
	err  error
}

func (f *fakeMessaging) Send(ctx context.Context, message *messaging.Message) (string, error) {
	f.sent = message
	return "projects/umsshop/messages/1", f.err
}

func TestFCMSender_Send_MapsFields(t *testing.T) {
	// Arrange
	client := &fakeMessaging{}
	sender := &FCMSender{client: client}

	// Act
	err := sender.Send(context.Background(), entity.PushMessage{
		Token: "device-token",
		Title: "New message",
		Body:  "Your order ORD-1 has a reply",
		Data:  map[string]string{"orderId": "ORD-1", "type": "message"},
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, client.sent)
	assert.Equal(t, "device-token", client.sent.Token)
	assert.Equal(t, "New message", client.sent.Notification.Title)
	assert.Equal(t, "ORD-1", client.sent.Data["orderId"])
}

func TestFCMSender_Send_Error(t *testing.T) {
	sender := &FCMSender{client: &fakeMessaging{err: errors.New("registration-token-not-registered")}}

	err := sender.Send(context.Background(), entity.PushMessage{Token: "stale"})

	assert.ErrorContains(t, err, "failed to send push notification")
}

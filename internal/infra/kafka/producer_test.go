package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"vida-social/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationEvent(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := &model.Notification{
		ID:          7,
		RecipientID: 2,
		ActorID:     1,
		Type:        model.NotificationMention,
		EntityID:    42,
		EntityType:  model.EntityComment,
		Text:        "hi @bob",
		CreatedAt:   created,
	}

	payload, err := json.Marshal(NewNotificationEvent(n))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, float64(2), decoded["recipient_id"])
	assert.Equal(t, "mention", decoded["type"])
	assert.Equal(t, "comment", decoded["entity_type"])
	assert.Equal(t, "hi @bob", decoded["text"])

	n.Text = ""
	payload, err = json.Marshal(NewNotificationEvent(n))
	require.NoError(t, err)
	assert.NotContains(t, string(payload), `"text"`)
}

func TestNotificationMessageKeyedByRecipient(t *testing.T) {
	msg, err := notificationMessage(&model.Notification{ID: 3, RecipientID: 9, Type: model.NotificationFollow})
	require.NoError(t, err)
	assert.Equal(t, "user-9", string(msg.Key))

	var event NotificationEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, int64(3), event.ID)
	assert.Equal(t, "follow", event.Type)
}

func TestNilProducerClose(t *testing.T) {
	var p *Producer
	assert.NoError(t, p.Close())
}

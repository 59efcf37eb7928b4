package outbox

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/audit"
	"github.com/parish-fund-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	actor := shared.Actor{ID: "u-1", Role: shared.RoleBookkeeper}
	event := audit.NewPostedEvent(uuid.New(), actor, "corr-1")

	msg, err := NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.ID, msg.EventID)
	assert.Equal(t, event.TransactionID, msg.TransactionID)
	assert.Equal(t, StatusPending, msg.Status)
	assert.Equal(t, 0, msg.Attempts)
	assert.Nil(t, msg.LastAttemptAt)

	decoded, err := msg.GetEvent()
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, audit.EventTransactionPosted, decoded.Type)
	assert.Equal(t, "u-1", decoded.ActorID)
}

func TestMessageStateTransitions(t *testing.T) {
	event := audit.NewVoidedEvent(uuid.New(), shared.Actor{ID: "u-2", Role: shared.RoleAdmin}, "")
	msg, err := NewMessage(event)
	require.NoError(t, err)

	before := time.Now()

	msg.IncrementAttempts()
	assert.Equal(t, 1, msg.Attempts)
	require.NotNil(t, msg.LastAttemptAt)
	assert.False(t, msg.LastAttemptAt.Before(before))

	msg.MarkAsFailed()
	assert.Equal(t, StatusFailedToPublish, msg.Status)

	msg.MarkAsProcessed()
	assert.Equal(t, StatusProcessed, msg.Status)
}

func TestGetEventInvalidPayload(t *testing.T) {
	msg := &Message{Payload: []byte("{not json")}
	event, err := msg.GetEvent()
	assert.Error(t, err)
	assert.Nil(t, event)
}

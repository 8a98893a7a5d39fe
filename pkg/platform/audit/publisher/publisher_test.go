package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "huduma/pkg/domain"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/platform/audit/store/memory"
	"huduma/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error { return errors.New("disk full") }
func (failingStore) ListByUser(context.Context, id.UserID) ([]audit.Event, error) {
	return nil, nil
}

func TestPublisher_EmitFillsDefaults(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	now := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithRequestID(ctx, "req-42")
	userID := id.NewUserID()

	require.NoError(t, pub.Emit(ctx, audit.Event{
		UserID: userID,
		Action: string(audit.EventRequestApproved),
	}))

	events, err := pub.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Equal(t, now, events[0].Timestamp)
	assert.Equal(t, "req-42", events[0].RequestID)
}

func TestPublisher_ListIncludesActor(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	officer := id.NewUserID()

	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		UserID:  id.NewUserID(),
		ActorID: officer,
		Action:  string(audit.EventRequestRejected),
	}))

	events, err := pub.List(context.Background(), officer)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestPublisher_ComplianceFailsClosed(t *testing.T) {
	pub := NewPublisher(failingStore{})
	err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventRequestApproved)})
	assert.Error(t, err)
}

func TestPublisher_OperationsFailureIsSwallowed(t *testing.T) {
	pub := NewPublisher(failingStore{})
	err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventLetterDownloaded)})
	assert.NoError(t, err)
}

func TestPublisher_RequiresAction(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore())
	assert.Error(t, pub.Emit(context.Background(), audit.Event{}))
}

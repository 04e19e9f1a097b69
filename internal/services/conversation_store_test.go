package services

import (
	"testing"
	"time"

	"campusmarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveSnapshot(t *testing.T, snapshots <-chan []models.ConversationView) []models.ConversationView {
	t.Helper()
	select {
	case views, open := <-snapshots:
		require.True(t, open, "snapshot channel closed unexpectedly")
		return views
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for conversation snapshot")
		return nil
	}
}

func TestConversationStoreInitialSnapshot(t *testing.T) {
	ama := testUser(2, "ama")
	kofi := testUser(5, "kofi")
	service, _ := newChatServiceForTest(ama, kofi)

	conversation, err := service.Resolve(2, 5, nil)
	require.NoError(t, err)
	_, err = service.SendMessage(5, &models.MessageRequest{
		ConversationID: conversation.ID,
		Content:        "do you still sell prints?",
	})
	require.NoError(t, err)

	store := NewConversationStore(2, service, service.broker)
	snapshots, err := store.Open()
	require.NoError(t, err)
	defer store.Release()

	views := receiveSnapshot(t, snapshots)
	require.Len(t, views, 1)
	assert.Equal(t, conversation.ID, views[0].ID)
	require.NotNil(t, views[0].Counterpart)
	assert.Equal(t, uint(5), views[0].Counterpart.ID)
	require.NotNil(t, views[0].LastMessage)
	assert.Equal(t, "do you still sell prints?", views[0].LastMessage.Content)
	assert.Equal(t, 1, views[0].Unread)
}

func TestConversationStoreRefreshesOnNewMessage(t *testing.T) {
	ama := testUser(2, "ama")
	kofi := testUser(5, "kofi")
	service, _ := newChatServiceForTest(ama, kofi)

	conversation, err := service.Resolve(2, 5, nil)
	require.NoError(t, err)

	store := NewConversationStore(2, service, service.broker)
	snapshots, err := store.Open()
	require.NoError(t, err)
	defer store.Release()

	initial := receiveSnapshot(t, snapshots)
	require.Len(t, initial, 1)
	assert.Nil(t, initial[0].LastMessage)

	_, err = service.SendMessage(5, &models.MessageRequest{
		ConversationID: conversation.ID,
		Content:        "yes, GHS 50",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		select {
		case views := <-snapshots:
			return len(views) == 1 &&
				views[0].LastMessage != nil &&
				views[0].LastMessage.Content == "yes, GHS 50" &&
				views[0].Unread == 1
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConversationStoreRefreshesOnNewConversation(t *testing.T) {
	ama := testUser(2, "ama")
	kofi := testUser(5, "kofi")
	efua := testUser(7, "efua")
	service, _ := newChatServiceForTest(ama, kofi, efua)

	store := NewConversationStore(2, service, service.broker)
	snapshots, err := store.Open()
	require.NoError(t, err)
	defer store.Release()

	assert.Empty(t, receiveSnapshot(t, snapshots))

	// counterpart opens the thread; the viewer's inbox picks it up
	_, err = service.Resolve(5, 2, nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		select {
		case views := <-snapshots:
			return len(views) == 1
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	// a conversation between two other users never reaches this store
	_, err = service.Resolve(5, 7, nil)
	require.NoError(t, err)

	select {
	case views := <-snapshots:
		assert.Len(t, views, 1)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConversationStoreRelease(t *testing.T) {
	ama := testUser(2, "ama")
	kofi := testUser(5, "kofi")
	service, _ := newChatServiceForTest(ama, kofi)

	store := NewConversationStore(2, service, service.broker)
	snapshots, err := store.Open()
	require.NoError(t, err)

	receiveSnapshot(t, snapshots)
	store.Release()
	store.Release()

	for {
		views, open := <-snapshots
		if !open {
			break
		}
		assert.NotNil(t, views)
	}
}

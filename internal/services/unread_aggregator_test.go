package services

import (
	"testing"
	"time"

	"campusmarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveCount(t *testing.T, counts <-chan int) int {
	t.Helper()
	select {
	case count, open := <-counts:
		require.True(t, open, "count channel closed unexpectedly")
		return count
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for unread count")
		return -1
	}
}

func TestUnreadAggregatorColdCountIsZero(t *testing.T) {
	ama := testUser(2, "ama")
	service, _ := newChatServiceForTest(ama)

	aggregator := NewUnreadAggregator(2, service, service.broker)
	assert.Equal(t, 0, aggregator.Count())
}

func TestUnreadAggregatorNoConversations(t *testing.T) {
	ama := testUser(2, "ama")
	service, _ := newChatServiceForTest(ama)

	aggregator := NewUnreadAggregator(2, service, service.broker)
	counts, err := aggregator.Open()
	require.NoError(t, err)
	defer aggregator.Release()

	assert.Equal(t, 0, receiveCount(t, counts))
	assert.Equal(t, 0, aggregator.Count())
}

func TestUnreadAggregatorTracksIncomingAndReads(t *testing.T) {
	ama := testUser(2, "ama")
	kofi := testUser(5, "kofi")
	service, _ := newChatServiceForTest(ama, kofi)

	conversation, err := service.Resolve(2, 5, nil)
	require.NoError(t, err)

	aggregator := NewUnreadAggregator(2, service, service.broker)
	counts, err := aggregator.Open()
	require.NoError(t, err)
	defer aggregator.Release()

	assert.Equal(t, 0, receiveCount(t, counts))

	for i := 0; i < 3; i++ {
		_, err = service.SendMessage(5, &models.MessageRequest{
			ConversationID: conversation.ID,
			Content:        "unread me",
		})
		require.NoError(t, err)
	}
	// the viewer's own message never counts against their badge
	_, err = service.SendMessage(2, &models.MessageRequest{
		ConversationID: conversation.ID,
		Content:        "outgoing",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return aggregator.Count() == 3
	}, 2*time.Second, 10*time.Millisecond)

	_, err = service.MarkConversationRead(2, conversation.ID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return aggregator.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnreadAggregatorRelease(t *testing.T) {
	ama := testUser(2, "ama")
	service, _ := newChatServiceForTest(ama)

	aggregator := NewUnreadAggregator(2, service, service.broker)
	counts, err := aggregator.Open()
	require.NoError(t, err)

	receiveCount(t, counts)
	aggregator.Release()
	aggregator.Release()

	for {
		if _, open := <-counts; !open {
			break
		}
	}
}

package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"campusmarket/configs"
	"campusmarket/internal/enums"
	"campusmarket/internal/models"
	"campusmarket/internal/realtime"
	"campusmarket/internal/repositories"
	"campusmarket/internal/services"
	"campusmarket/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var socketTestKey = []byte("socket-test-secret")

// stubChatRepository serves one fixed conversation with no messages; the
// embedded interface panics on anything the socket flow never touches.
type stubChatRepository struct {
	repositories.ChatRepository
	conversation models.Conversation
}

func (s *stubChatRepository) GetConversationByID(conversationID uint) (*models.Conversation, error) {
	copied := s.conversation
	return &copied, nil
}

func (s *stubChatRepository) IsMember(conversationID, userID uint) (bool, error) {
	return s.conversation.HasParticipant(userID), nil
}

func (s *stubChatRepository) GetRecentMessages(conversationID uint, limit int) ([]models.Message, error) {
	return nil, nil
}

func (s *stubChatRepository) GetUserConversations(userID uint) ([]models.Conversation, error) {
	return nil, nil
}

func (s *stubChatRepository) ConversationIDs(userID uint) ([]uint, error) {
	return nil, nil
}

func (s *stubChatRepository) MarkConversationRead(conversationID, readerID uint, at time.Time) ([]models.Message, error) {
	return nil, nil
}

type stubAuthRepository struct {
	repositories.AuthenticationRepository
	mu     sync.Mutex
	online map[uint]bool
}

func (s *stubAuthRepository) SetOnlineStatus(userID uint, online bool) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.online == nil {
		s.online = make(map[uint]bool)
	}
	s.online[userID] = online
	now := time.Now()
	return &now, nil
}

func (s *stubAuthRepository) isOnline(userID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online[userID]
}

func socketTestToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := utils.CreateJwtToken(userID, "ama@knust.edu.gh", "Ama", "Mensah",
		socketTestKey, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return token
}

func TestSocketChatHandlerReleasesOnClientDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	chatRepo := &stubChatRepository{
		conversation: models.Conversation{
			Model:          gorm.Model{ID: 1},
			ParticipantAID: 2,
			ParticipantBID: 5,
		},
	}
	broker := realtime.NewBroker(context.Background(), nil)
	chatService := services.NewChatService(chatRepo, &stubAuthRepository{}, broker)
	handler := NewSocketChatHandler(chatService, socketTestKey)

	handlerReturned := make(chan struct{})
	router := gin.New()
	router.GET("/ws/chat", func(ctx *gin.Context) {
		handler.HandleSocketChatRoute(ctx)
		close(handlerReturned)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") +
		"/ws/chat?conversationId=1&token=" + socketTestToken(t, 2)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	var history map[string]any
	require.NoError(t, ws.ReadJSON(&history))
	assert.Equal(t, enums.SOCKET_EVENT_CONVERSATIONS, history["event"])

	// closing the client must tear the whole handler down, even with the
	// conversation quiet and the event pump idle
	require.NoError(t, ws.Close())

	select {
	case <-handlerReturned:
	case <-time.After(2 * time.Second):
		t.Fatal("handler kept running after the client disconnected")
	}
}

func TestSocketInboxHandlerMarksOfflineOnDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authRepo := &stubAuthRepository{}
	chatRepo := &stubChatRepository{}
	broker := realtime.NewBroker(context.Background(), nil)
	chatService := services.NewChatService(chatRepo, authRepo, broker)
	authService := services.NewAuthenticationService(authRepo, configs.GetConfig())
	handler := NewSocketInboxHandler(chatService, authService, broker, socketTestKey)

	router := gin.New()
	router.GET("/ws/inbox", handler.HandleSocketInboxRoute)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") +
		"/ws/inbox?token=" + socketTestToken(t, 2)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	// drain the initial snapshot and badge so the pump sits idle
	for i := 0; i < 2; i++ {
		var envelope map[string]any
		require.NoError(t, ws.ReadJSON(&envelope))
	}
	assert.True(t, authRepo.isOnline(2))

	require.NoError(t, ws.Close())

	// the offline flip runs after the pump is unblocked, so it proves the
	// full teardown on a quiet inbox
	assert.Eventually(t, func() bool { return !authRepo.isOnline(2) }, 2*time.Second, 10*time.Millisecond)
}

func TestHistoryFilterSuppressesSnapshotEcho(t *testing.T) {
	history := []models.Message{
		{Model: gorm.Model{ID: 1}, ConversationID: 1, SenderID: 2, Content: "first"},
		{Model: gorm.Model{ID: 2}, ConversationID: 1, SenderID: 5, Content: "second"},
	}
	forward := historyFilter(history)

	// an insert already in the history frame is dropped once
	assert.False(t, forward(services.StreamEvent{Kind: realtime.KindInsert, Message: history[1]}))
	assert.True(t, forward(services.StreamEvent{Kind: realtime.KindInsert, Message: history[1]}))

	// read-state updates pass through even for history messages
	assert.True(t, forward(services.StreamEvent{Kind: realtime.KindUpdate, Message: history[0]}))

	// a genuinely new message passes through
	fresh := models.Message{Model: gorm.Model{ID: 3}, ConversationID: 1, SenderID: 5, Content: "third"}
	assert.True(t, forward(services.StreamEvent{Kind: realtime.KindInsert, Message: fresh}))
}

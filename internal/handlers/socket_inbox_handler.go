package handlers

import (
	"log"
	"net/http"

	"campusmarket/internal/enums"
	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	"campusmarket/internal/msgs"
	"campusmarket/internal/realtime"
	"campusmarket/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SocketInboxHandler serves the inbox screen over one websocket: the live
// conversation list and the unread badge. Connecting marks the user online,
// disconnecting marks them offline with a last-seen timestamp.
type SocketInboxHandler struct {
	upgrader    websocket.Upgrader
	chatService *services.ChatService
	authService *services.AuthenticationService
	broker      *realtime.Broker
	jwtKey      []byte
}

func NewSocketInboxHandler(
	chatService *services.ChatService,
	authService *services.AuthenticationService,
	broker *realtime.Broker,
	jwtKey []byte,
) *SocketInboxHandler {
	return &SocketInboxHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		chatService: chatService,
		authService: authService,
		broker:      broker,
		jwtKey:      jwtKey,
	}
}

func (sih *SocketInboxHandler) HandleSocketInboxRoute(ctx *gin.Context) {
	userInfo, err := authenticateSocketRequest(ctx, sih.jwtKey)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	sih.handleConnection(ctx, userInfo)
}

func (sih *SocketInboxHandler) handleConnection(ctx *gin.Context, userInfo *models.Claims) {
	ws, err := sih.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func(ws *websocket.Conn) {
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}(ws)

	if _, err := sih.authService.SetUserOnlineStatus(userInfo.ID, true); err != nil {
		log.Printf("Error setting user %v online: %v", userInfo.ID, err)
	}
	defer func() {
		if _, err := sih.authService.SetUserOnlineStatus(userInfo.ID, false); err != nil {
			log.Printf("Error setting user %v offline: %v", userInfo.ID, err)
		}
	}()

	store := services.NewConversationStore(userInfo.ID, sih.chatService, sih.broker)
	snapshots, err := store.Open()
	if err != nil {
		log.Printf("Error opening conversation store for user %v: %v", userInfo.ID, err)
		return
	}
	defer store.Release()

	aggregator := services.NewUnreadAggregator(userInfo.ID, sih.chatService, sih.broker)
	counts, err := aggregator.Open()
	if err != nil {
		log.Printf("Error opening unread aggregator for user %v: %v", userInfo.ID, err)
		return
	}
	defer aggregator.Release()

	done := make(chan struct{})
	go sih.pumpInboxUpdates(ws, snapshots, counts, done)

	// The inbox socket carries no client commands; the read loop only
	// detects disconnects.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	// The pump exits only when the channels close, so both components must
	// be released before waiting on it.
	store.Release()
	aggregator.Release()
	<-done
}

func (sih *SocketInboxHandler) pumpInboxUpdates(
	ws *websocket.Conn,
	snapshots <-chan []models.ConversationView,
	counts <-chan int,
	done chan<- struct{},
) {
	defer close(done)
	for {
		select {
		case views, open := <-snapshots:
			if !open {
				return
			}
			if err := ws.WriteJSON(inboxEnvelope(enums.SOCKET_EVENT_CONVERSATIONS, views)); err != nil {
				log.Printf("Error writing conversation snapshot: %v", err)
				return
			}
		case count, open := <-counts:
			if !open {
				return
			}
			if err := ws.WriteJSON(inboxEnvelope(enums.SOCKET_EVENT_UNREAD_COUNT, count)); err != nil {
				log.Printf("Error writing unread count: %v", err)
				return
			}
		}
	}
}

func inboxEnvelope(event string, payload any) gin.H {
	return gin.H{
		"event":   event,
		"payload": payload,
	}
}

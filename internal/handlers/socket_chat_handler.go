package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"campusmarket/internal/enums"
	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	socketModels "campusmarket/internal/models/socket"
	"campusmarket/internal/msgs"
	"campusmarket/internal/realtime"
	"campusmarket/internal/services"
	"campusmarket/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SocketChatHandler bridges one websocket connection to the message stream
// of one conversation. Each accepted connection gets its own stream; the
// stream is released when the connection goes away.
type SocketChatHandler struct {
	upgrader    websocket.Upgrader
	chatService *services.ChatService
	jwtKey      []byte
}

func NewSocketChatHandler(chatService *services.ChatService, jwtKey []byte) *SocketChatHandler {
	return &SocketChatHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		chatService: chatService,
		jwtKey:      jwtKey,
	}
}

func (sch *SocketChatHandler) HandleSocketChatRoute(ctx *gin.Context) {
	userInfo, err := authenticateSocketRequest(ctx, sch.jwtKey)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	conversationID, err := strconv.Atoi(ctx.Query("conversationId"))
	if err != nil || conversationID < 1 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidConversationId},
		})
		return
	}
	conversationIDUint := uint(conversationID)
	if !sch.chatService.CheckConversationExists(conversationIDUint) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidConversationId},
		})
		return
	}
	if !sch.chatService.CheckUserInConversation(userInfo.ID, conversationIDUint) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidConversationId},
		})
		return
	}

	sch.handleConnection(ctx, userInfo, conversationIDUint)
}

func (sch *SocketChatHandler) handleConnection(ctx *gin.Context, userInfo *models.Claims, conversationID uint) {
	ws, err := sch.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func(ws *websocket.Conn) {
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}(ws)

	stream := services.NewMessageStream(conversationID, userInfo.ID, sch.chatService)
	events, err := stream.Open()
	if err != nil {
		log.Printf("Error opening message stream for conversation %v: %v", conversationID, err)
		return
	}
	defer stream.Release()

	// History first, so the client renders before any live event lands.
	history := stream.Messages()
	if err := ws.WriteJSON(socketEnvelope(enums.SOCKET_EVENT_CONVERSATIONS, conversationID, history)); err != nil {
		log.Printf("Error writing history: %v", err)
		return
	}

	done := make(chan struct{})
	go sch.pumpStreamEvents(ws, conversationID, events, historyFilter(history), done)

	sch.readClientEvents(ws, stream, conversationID)
	// The pump exits only when the events channel closes, so the stream
	// must be released before waiting on it.
	stream.Release()
	<-done
}

// historyFilter suppresses insert events for messages already delivered in
// the history frame. A message landing between stream open and the history
// write is both in the snapshot and queued as a live event; without the
// filter the client would render it twice.
func historyFilter(history []models.Message) func(services.StreamEvent) bool {
	delivered := make(map[uint]struct{}, len(history))
	for i := range history {
		delivered[history[i].ID] = struct{}{}
	}
	return func(event services.StreamEvent) bool {
		if event.Kind != realtime.KindInsert {
			return true
		}
		if _, ok := delivered[event.Message.ID]; ok {
			delete(delivered, event.Message.ID)
			return false
		}
		return true
	}
}

// pumpStreamEvents forwards live stream events to the client until the
// stream's channel closes.
func (sch *SocketChatHandler) pumpStreamEvents(ws *websocket.Conn, conversationID uint, events <-chan services.StreamEvent, forward func(services.StreamEvent) bool, done chan<- struct{}) {
	defer close(done)
	for event := range events {
		if !forward(event) {
			continue
		}
		eventName := enums.SOCKET_EVENT_NEW_MESSAGE
		if event.Kind == realtime.KindUpdate {
			eventName = enums.SOCKET_EVENT_READ_MESSAGE
		}
		if err := ws.WriteJSON(socketEnvelope(eventName, conversationID, event.Message)); err != nil {
			log.Printf("Error writing stream event: %v", err)
			return
		}
	}
}

func (sch *SocketChatHandler) readClientEvents(ws *websocket.Conn, stream *services.MessageStream, conversationID uint) {
	for {
		var event socketModels.SocketEvent
		if err := ws.ReadJSON(&event); err != nil {
			log.Printf("Error reading json: %v", err)
			return
		}

		switch event.Event {
		case enums.SOCKET_EVENT_SEND_MESSAGE:
			var payload socketModels.SendMessagePayload
			if err := json.Unmarshal(event.Payload, &payload); err != nil {
				log.Printf("Error unmarshalling send payload: %v", err)
				continue
			}
			if _, err := stream.Send(payload.Content, payload.Attachments, payload.Link); err != nil {
				log.Printf("Error sending message in conversation %v: %v", conversationID, err)
			}
		case enums.SOCKET_EVENT_READ_MESSAGE:
			if err := stream.MarkRead(); err != nil {
				log.Printf("Error marking conversation %v read: %v", conversationID, err)
			}
		default:
			log.Printf("Unknown event: %v", event.Event)
		}
	}
}

func authenticateSocketRequest(ctx *gin.Context, jwtKey []byte) (*models.Claims, error) {
	jwtToken := ctx.Request.Header.Get("Authorization")
	if jwtToken == "" {
		jwtToken = ctx.Query("token")
	}
	if jwtToken == "" {
		return nil, errs.ErrUnauthorized
	}
	claims, err := utils.VerifyToken(jwtToken, jwtKey)
	if err != nil || claims.ID == 0 {
		return nil, errs.ErrUnauthorized
	}
	return claims, nil
}

func socketEnvelope(event string, conversationID uint, payload any) gin.H {
	return gin.H{
		"event":           event,
		"conversation_id": conversationID,
		"payload":         payload,
	}
}

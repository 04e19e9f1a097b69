package handlers

import (
	"net/http"
	"strconv"

	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	"campusmarket/internal/msgs"
	"campusmarket/internal/utils"

	"github.com/gin-gonic/gin"
)

// ResolveConversation godoc
// @Summary      Find or create the conversation with a counterpart
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /conversations/resolve [post]
func (rh *RestHandler) ResolveConversation(ctx *gin.Context) {
	viewerID := utils.GetUserIdFromContext(ctx)
	if viewerID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	var request models.ResolveConversationRequestBody
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidRequestBody},
		})
		return
	}

	conversation, err := rh.chatService.Resolve(viewerID, request.CounterpartID, request.ListingID)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversation,
	})
}

// GetUserConversations godoc
// @Summary      List the viewer's conversations with counterpart, last message and unread count
// @Tags         chat
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Router       /conversations [get]
func (rh *RestHandler) GetUserConversations(ctx *gin.Context) {
	viewerID := utils.GetUserIdFromContext(ctx)
	if viewerID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	views, err := rh.chatService.ListConversations(viewerID)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data: models.ConversationListResponse{
			Conversations: views,
			Total:         int64(len(views)),
		},
	})
}

// GetConversationMessages godoc
// @Summary      Recent messages of a conversation, oldest first
// @Tags         chat
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Router       /conversations/{id}/messages [get]
func (rh *RestHandler) GetConversationMessages(ctx *gin.Context) {
	viewerID := utils.GetUserIdFromContext(ctx)
	if viewerID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	conversationID, err := uintParam(ctx, "id")
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidParams},
		})
		return
	}

	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil || limit < 1 {
		limit = 100
	}

	messages, err := rh.chatService.GetMessages(viewerID, conversationID, limit)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data: models.MessageListResponse{
			Messages: messages,
			Total:    int64(len(messages)),
		},
	})
}

// SaveMessage godoc
// @Summary      Send a message over REST
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /messages [post]
func (rh *RestHandler) SaveMessage(ctx *gin.Context) {
	senderID := utils.GetUserIdFromContext(ctx)
	if senderID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	var request models.MessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidRequestBody},
		})
		return
	}

	message, err := rh.chatService.SendMessage(senderID, &request)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    message,
	})
}

// MarkConversationRead godoc
// @Summary      Mark every incoming message of a conversation as read
// @Tags         chat
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Router       /conversations/{id}/read [post]
func (rh *RestHandler) MarkConversationRead(ctx *gin.Context) {
	viewerID := utils.GetUserIdFromContext(ctx)
	if viewerID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	conversationID, err := uintParam(ctx, "id")
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidParams},
		})
		return
	}

	flipped, err := rh.chatService.MarkConversationRead(viewerID, conversationID)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    gin.H{"marked_read": flipped},
	})
}

// GetUnreadCount godoc
// @Summary      Total unread badge across all conversations
// @Tags         chat
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Router       /conversations/unread [get]
func (rh *RestHandler) GetUnreadCount(ctx *gin.Context) {
	viewerID := utils.GetUserIdFromContext(ctx)
	if viewerID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	total, err := rh.chatService.UnreadTotal(viewerID)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    gin.H{"unread": total},
	})
}

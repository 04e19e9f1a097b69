package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"campusmarket/configs"
	_ "campusmarket/docs"
	"campusmarket/internal/handlers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx                context.Context
	config             *configs.Config
	router             *gin.Engine
	restHandler        *handlers.RestHandler
	socketChatHandler  *handlers.SocketChatHandler
	socketInboxHandler *handlers.SocketInboxHandler
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	restHandler *handlers.RestHandler,
	socketChatHandler *handlers.SocketChatHandler,
	socketInboxHandler *handlers.SocketInboxHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:                ctx,
			config:             config,
			restHandler:        restHandler,
			socketChatHandler:  socketChatHandler,
			socketInboxHandler: socketInboxHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRestfulRoutes()
	hs.setupWebSocketRoutes()

	server := hs.startServer()

	// Wait for interrupt signal to gracefully shut down the server
	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.POST("/login", hs.restHandler.Login)
	hs.router.POST("/register", hs.restHandler.Register)
	hs.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	hs.router.GET("/listings", hs.restHandler.GetListings)
	hs.router.GET("/listings/:id", hs.restHandler.GetSingleListing)
	hs.router.GET("/listings/:id/reviews", hs.restHandler.GetListingReviews)

	authorized := hs.router.Group("/", hs.restHandler.MustAuthenticateMiddleware())
	{
		authorized.GET("/users", hs.restHandler.GetAllUsersWithPagination)
		authorized.GET("/users/:id", hs.restHandler.GetSingleUser)
		authorized.PUT("/users", hs.restHandler.UpdateUser)
		authorized.POST("/users/profile-photo", hs.restHandler.UploadUserProfilePhoto)

		authorized.POST("/conversations/resolve", hs.restHandler.ResolveConversation)
		authorized.GET("/conversations", hs.restHandler.GetUserConversations)
		authorized.GET("/conversations/unread", hs.restHandler.GetUnreadCount)
		authorized.GET("/conversations/:id/messages", hs.restHandler.GetConversationMessages)
		authorized.POST("/conversations/:id/read", hs.restHandler.MarkConversationRead)
		authorized.POST("/messages", hs.restHandler.SaveMessage)
		authorized.POST("/messages/attachment", hs.restHandler.UploadMessageAttachment)

		authorized.POST("/listings", hs.restHandler.CreateListing)
		authorized.POST("/bookings", hs.restHandler.CreateBooking)
		authorized.GET("/bookings", hs.restHandler.GetBookings)
		authorized.GET("/bookings/:id", hs.restHandler.GetSingleBooking)
		authorized.PUT("/bookings/:id/status", hs.restHandler.UpdateBookingStatus)
		authorized.GET("/bookings/:id/invoice", hs.restHandler.GetInvoice)
		authorized.POST("/reviews", hs.restHandler.CreateReview)
		authorized.POST("/payments", hs.restHandler.InitiatePayment)
		authorized.POST("/payments/verify", hs.restHandler.VerifyPayment)
	}
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.router.GET("/ws/chat", hs.socketChatHandler.HandleSocketChatRoute)
	hs.router.GET("/ws/inbox", hs.socketInboxHandler.HandleSocketInboxRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	port := hs.config.Viper.GetInt("server.port")
	if port == 0 {
		port = 8000
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on :%d", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

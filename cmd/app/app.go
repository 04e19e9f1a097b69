package app

import (
	"context"
	"sync"

	"campusmarket/configs"
	"campusmarket/internal/gateway"
	"campusmarket/internal/handlers"
	"campusmarket/internal/realtime"
	"campusmarket/internal/repositories"
	"campusmarket/internal/servers/database"
	"campusmarket/internal/servers/http"
	"campusmarket/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()
	app.initializeRedis()

	db := database.GetDB(app.configs)
	broker := realtime.NewBroker(app.ctx, app.redis)

	authRepo := repositories.NewAuthenticationRepository(db)
	authService := services.NewAuthenticationService(authRepo, app.configs)
	chatRepo := repositories.NewChatRepository(db)
	chatService := services.NewChatService(chatRepo, authRepo, broker)

	listingRepo := repositories.NewListingRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	listingService := services.NewListingService(listingRepo, reviewRepo)
	bookingService := services.NewBookingService(bookingRepo, listingRepo)
	reviewService := services.NewReviewService(reviewRepo, bookingRepo)

	momoClient := gateway.NewMomoClient(app.configs)
	paymentService := services.NewPaymentService(paymentRepo, bookingRepo, listingRepo, momoClient)

	minioService := services.NewMinioService(app.configs)
	fileManagerService := services.NewFileManagerService(minioService)

	restHandler := handlers.NewRestHandler(
		authService,
		chatService,
		listingService,
		bookingService,
		reviewService,
		paymentService,
		fileManagerService,
		app.configs.JwtKey(),
	)

	socketChatHandler := handlers.NewSocketChatHandler(chatService, app.configs.JwtKey())
	socketInboxHandler := handlers.NewSocketInboxHandler(chatService, authService, broker, app.configs.JwtKey())

	http.NewHttpServer(
		app.ctx,
		app.configs,
		restHandler,
		socketChatHandler,
		socketInboxHandler,
	).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.addr"),
	})
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}

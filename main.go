package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meditravel/config"
	"meditravel/cron"
	"meditravel/database"
	accessRepoPkg "meditravel/database/repository/access"
	applicationRepoPkg "meditravel/database/repository/application"
	bookingRepoPkg "meditravel/database/repository/booking"
	candidateRepoPkg "meditravel/database/repository/candidate"
	notificationRepoPkg "meditravel/database/repository/notification"
	userRepoPkg "meditravel/database/repository/user"
	"meditravel/handlers"
	"meditravel/i18n"
	"meditravel/routes"
	"meditravel/services/booking"
	"meditravel/services/matching"
	"meditravel/services/notification"
	"meditravel/services/payment"
	"meditravel/services/provider"
	"meditravel/services/session"
	"meditravel/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	storageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	translator, err := i18n.NewTranslator()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load translation catalogs: %v", err)
	}
	translator.ApplyOverrides(context.Background(), database.Collection("translations"))

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	accessRepo := accessRepoPkg.NewMongoAccessRepo()
	candidateRepo := candidateRepoPkg.NewMongoCandidateRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	applicationRepo := applicationRepoPkg.NewMongoApplicationRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// Background queue client for deferred tasks.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
	})
	defer queueClient.Close()

	// Services.
	identityStore := session.NewRedisIdentityStore(utils.GetSessionCacheClient())
	sessionService := session.NewSessionService(
		userRepo, accessRepo, identityStore,
		time.Duration(config.AppConfig.SessionTokenTTLHours)*time.Hour,
	)

	notificationService := &notification.DefaultNotificationService{
		Notifications: notificationRepo,
		Users:         userRepo,
		Bookings:      bookingRepo,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:  bookingRepo,
		Queue: queueClient,
	}

	matchingService := &matching.DefaultMatchingService{
		CandidateRepo: candidateRepo,
		CacheClient:   utils.GetCacheClient(),
	}

	providerService := &provider.DefaultProviderService{
		Applications: applicationRepo,
		Access:       accessRepo,
		Sessions:     sessionService,
	}

	wizardStore := payment.NewRedisWizardStore(utils.GetPaymentCacheClient())
	paymentService := &payment.DefaultPaymentService{
		Store:     wizardStore,
		Bookings:  bookingRepo,
		Listener:  notificationService,
		WizardTTL: time.Duration(config.AppConfig.WizardSessionTTLMin) * time.Minute,

		Card:         payment.NewCardHandler(logger),
		MobileMoney:  payment.NewMobileMoneyHandler(logger),
		BankTransfer: payment.NewBankTransferHandler(logger),
		Crypto:       payment.NewCryptoHandler(logger, time.Duration(config.AppConfig.CryptoRequestTTLMin)*time.Minute),
		Installment:  payment.NewInstallmentHandler(logger),

		Logger: logger,
	}

	// Background worker: booking reminders and the crypto expiry sweep.
	cron.InitWorker(notificationService, wizardStore)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Sessions:      sessionService,
		Payments:      paymentService,
		Bookings:      bookingService,
		Matching:      matchingService,
		Providers:     providerService,
		Notifications: notificationService,
		Storage:       storageService,
		Translator:    translator,
		UserRepo:      userRepo,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

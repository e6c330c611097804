package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joelbobai/Manzo-BE/config"
	"github.com/joelbobai/Manzo-BE/cron"
	"github.com/joelbobai/Manzo-BE/database"
	bookingRepo "github.com/joelbobai/Manzo-BE/database/repository/booking"
	"github.com/joelbobai/Manzo-BE/handlers"
	"github.com/joelbobai/Manzo-BE/middleware"
	"github.com/joelbobai/Manzo-BE/routes"
	"github.com/joelbobai/Manzo-BE/services/booking"
	"github.com/joelbobai/Manzo-BE/services/carrier"
	"github.com/joelbobai/Manzo-BE/services/commission"
	"github.com/joelbobai/Manzo-BE/services/notification"
	"github.com/joelbobai/Manzo-BE/services/payment"
	"github.com/joelbobai/Manzo-BE/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	sagas := bookingRepo.NewMongoSagaRepo()

	// Carrier access: one cached token shared by every request, kept
	// fresh in the background.
	tokens := carrier.NewCachedTokenProvider(carrier.DefaultTokenURL, carrier.Credentials{
		ClientID:      config.AppConfig.AmadeusClientID,
		ClientSecret:  config.AppConfig.AmadeusClientSecret,
		GuestOfficeID: config.AppConfig.GuestOfficeID,
	}, logger)
	tokens.StartRefreshing()
	defer tokens.Stop()

	carrierClient := carrier.NewHTTPClient(config.AmadeusBaseURL(), config.AppConfig.AmaClientRef, logger)
	gateway := payment.NewPaystackGateway(payment.DefaultBaseURL, config.PaystackSecretKey(), logger)
	commissions := commission.NewTable(config.AppConfig.Commissions)

	notifier := notification.NewSMTPNotifier(notification.MailConfig{
		Host:     config.AppConfig.MailHost,
		Port:     config.AppConfig.MailPort,
		User:     config.AppConfig.MailUser,
		Password: config.AppConfig.MailPass,
		Operator: config.AppConfig.OperatorEmail,
	}, logger)

	// Reconciliation queue: the booking service enqueues runs that fail
	// after carrier-side effects, the worker sweeps them up.
	enqueuer := cron.NewEnqueuer()
	defer enqueuer.Close()
	cron.InitReconcileWorker(sagas, bookings)

	ticketService := &booking.DefaultTicketService{
		Carrier:     carrierClient,
		Tokens:      tokens,
		Gateway:     gateway,
		Commissions: commissions,
		Repo:        bookings,
		SagaRepo:    sagas,
		Notifier:    notifier,
		Reconciler:  enqueuer,
		Logger:      logger,
	}

	flightHandler := handlers.NewFlightHandler(
		carrierClient,
		tokens,
		ticketService,
		utils.GetCacheClient(),
		config.AppConfig.BookingSharedKey,
		logger,
	)

	routes.RegisterRoutes(router, flightHandler, tokens)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

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

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/cmd/api"
	authRepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	authUsecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/usecase"
	boardRepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/repository"
	boardUsecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/usecase"
	cardRepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/scheduler"
	cardUsecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/usecase"
	commentRepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/repository"
	commentUsecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/usecase"
	listRepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/repository"
	listUsecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification"
	notifDelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/delivery"
	notifRepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/schema"
	subtaskRepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/repository"
	subtaskUsecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/usecase"
	tagRepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/repository"
	tagUsecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/channel"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/config"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/eventbus"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/fcm"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/mailer"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/ws"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := schema.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	fcmTokenRepository := authRepo.NewFCMTokenRepository(db)
	boardRepository := boardRepo.NewBoardRepository(db)
	cardRepository := cardRepo.NewCardRepository(db)
	listRepository := listRepo.NewListRepository(db)
	tagRepository := tagRepo.NewTagRepository(db)
	commentRepository := commentRepo.NewCommentRepository(db)
	subtaskRepository := subtaskRepo.NewSubtaskRepository(db)
	notificationRepository := notifRepo.NewNotificationRepository(db)

	ctx := context.Background()

	// Push transports. Each one is optional; the WebSocket hub always runs.
	hub := ws.NewHub(cfg.CORSOrigins)
	go hub.Run()
	publishers := notification.FanOut{notification.NewHubPublisher(hub)}

	var authorizer notifDelivery.ChannelAuthorizer
	if cfg.PusherEnabled() {
		pusherClient := channel.NewPusher(channel.Options{
			AppID:   cfg.PusherAppID,
			Key:     cfg.PusherKey,
			Secret:  cfg.PusherSecret,
			Cluster: cfg.PusherCluster,
		})
		authorizer = pusherClient
		publishers = append(publishers, notification.NewPusherPublisher(pusherClient))
		log.Printf("[Pusher] Enabled for app %s (cluster %s)", cfg.PusherAppID, cfg.PusherCluster)
	} else {
		log.Printf("[WARN] Pusher credentials not configured, channel auth disabled")
	}

	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			publishers = append(publishers, notification.NewFCMPublisher(fcmClient, fcmTokenRepository, cfg.FrontendBaseURL))
			log.Printf("[FCM] Client initialized")
		}
	}

	if cfg.GoogleProjectID != "" {
		bus, err := eventbus.NewPublisher(ctx, cfg.GoogleProjectID, cfg.PubSubTopic, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize Pub/Sub publisher: %v", err)
		} else {
			defer bus.Close()
			publishers = append(publishers, notification.NewEventBusPublisher(bus))
			log.Printf("[PubSub] Publishing notifications to topic %s", cfg.PubSubTopic)
		}
	}

	mail := mailer.New(mailer.Options{
		ResendAPIKey: cfg.ResendAPIKey,
		ResendFrom:   cfg.ResendFrom,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
		SMTPFrom:     cfg.SMTPFrom,
	})

	notificationService := notification.NewService(db, notificationRepository, publishers, mail, notification.Options{
		FrontendBaseURL: cfg.FrontendBaseURL,
		Timeout:         cfg.NotifyTimeout,
	})

	// Initialize use cases (dependency injection)
	usecases := api.Usecases{
		Auth:    authUsecase.NewAuthUsecase(userRepository, fcmTokenRepository, cfg),
		Board:   boardUsecase.NewBoardUsecase(db, boardRepository, userRepository, tagRepository, notificationService),
		Card:    cardUsecase.NewCardUsecase(db, cardRepository, boardRepository, listRepository, userRepository, tagRepository, notificationService),
		List:    listUsecase.NewListUsecase(db, listRepository, boardRepository),
		Tag:     tagUsecase.NewTagUsecase(tagRepository),
		Comment: commentUsecase.NewCommentUsecase(db, commentRepository, cardRepository, boardRepository, notificationService),
		Subtask: subtaskUsecase.NewSubtaskUsecase(db, subtaskRepository, cardRepository, boardRepository, userRepository, notificationService),
	}

	reminders := scheduler.NewDueReminderScheduler(db, cardRepository, userRepository, notificationService, cfg.DueReminderInterval, cfg.DueReminderWindow)
	reminders.Start()

	// Initialize HTTP handler
	handler := api.NewHandler(cfg, usecases, notifDelivery.NewNotificationHandler(notificationService, authorizer, hub))
	server := handler.Server(":" + cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Printf("Server stopped with error: %v", err)
	case sig := <-quit:
		log.Printf("Received %s, shutting down...", sig)
	}

	reminders.Stop()
	hub.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown with error: %v", err)
	}
}

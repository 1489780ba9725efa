package main

import (
	"umb_panel/internal/config"
	"umb_panel/internal/entities"
	"umb_panel/internal/infrastructure"
	"umb_panel/internal/interfaces/http"
	"umb_panel/internal/repository"
	"umb_panel/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using environment")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	store, err := infrastructure.NewSessionStore(cfg.SessionDBPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open session store")
	}
	defer store.Close()

	backend := infrastructure.NewBackendClient(cfg.BackendURL, cfg.BackendTimeout)
	backend.OnUnauthorized(func(sess *entities.Session) {
		if err := store.Delete(sess.ID); err != nil {
			logrus.WithError(err).WithField("session", sess.ID).Error("failed to clear session")
		}
	})

	var notifier infrastructure.Notifier
	if tn := infrastructure.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID); tn != nil {
		notifier = tn
		logrus.Info("telegram ops alerts enabled")
	}

	botRepo := repository.NewBotRepository(backend)
	userRepo := repository.NewUserRepository(backend)

	botClients := usecases.DefaultBotClientFactory(cfg.BotTimeout)
	authUsecase := usecases.NewAuthUsecase(backend, store, cfg.JWTSecret)
	statusUsecase := usecases.NewStatusUsecase(botRepo, notifier, botClients)
	actionsUsecase := usecases.NewBotActionsUsecase(botRepo, botClients)

	middleware := http.NewMiddleware(authUsecase)
	handler := http.NewHandler(authUsecase, botRepo, userRepo, statusUsecase, actionsUsecase)

	r := gin.Default()
	http.SetupRoutes(r, handler, middleware)

	logrus.WithField("addr", cfg.ListenAddr).Info("panel listening")
	if err := r.Run(cfg.ListenAddr); err != nil {
		logrus.WithError(err).Fatal("http server stopped")
	}
}

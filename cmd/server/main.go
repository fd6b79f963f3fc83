package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/phoenixchat/phoenix/internal/config"
	"github.com/phoenixchat/phoenix/internal/database"
	"github.com/phoenixchat/phoenix/internal/mailer"
	sqliterepo "github.com/phoenixchat/phoenix/internal/repository/sqlite"
	"github.com/phoenixchat/phoenix/internal/service"
	"github.com/phoenixchat/phoenix/internal/transport/http/handlers"
)

func main() {
	cfg := config.Load()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Database
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logrus.Fatal(err)
	}
	defer db.Close()
	logrus.WithField("path", cfg.DatabasePath).Info("database ready")

	// Repositories
	userRepo := sqliterepo.NewUserRepo(db)
	tokenRepo := sqliterepo.NewTokenRepo(db)
	botRepo := sqliterepo.NewBotRepo(db)
	likeRepo := sqliterepo.NewLikeRepo(db)
	messageRepo := sqliterepo.NewMessageRepo(db)

	// Services
	m := mailer.New(cfg)
	authService := service.NewAuthService(userRepo, tokenRepo, m, cfg.JWTSecret, cfg.APIURL)
	botService := service.NewBotService(botRepo, likeRepo, messageRepo)
	userService := service.NewUserService(userRepo, botRepo, likeRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.FrontendURL)
	botHandler := handlers.NewBotHandler(botService)
	userHandler := handlers.NewUserHandler(userService)

	router := handlers.NewRouter(cfg.JWTSecret, cfg.FrontendURL, authHandler, botHandler, userHandler)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.WithField("addr", addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("could not listen on %s: %v", addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}
	logrus.Info("server exited")
}

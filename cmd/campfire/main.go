package main

import (
	"os"

	"github.com/campfire-dev/campfire/db"
	"github.com/campfire-dev/campfire/internal/auth"
	"github.com/campfire-dev/campfire/internal/config"
	"github.com/campfire-dev/campfire/internal/handlers"
	"github.com/campfire-dev/campfire/internal/router"
	"github.com/campfire-dev/campfire/internal/services"
	"github.com/campfire-dev/campfire/internal/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	conf, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	database, err := db.Connect(conf.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	tokens, err := auth.NewTokenManager(conf.Auth.JWTSecret, conf.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	origins := append([]string{}, types.DefaultOrigins...)
	if conf.HTTPServer.ClientURL != "" {
		origins = append(origins, conf.HTTPServer.ClientURL)
	}
	origins = append(origins, conf.HTTPServer.AllowedOrigins...)

	notifier := services.NewWebhookNotifier()
	hub := handlers.NewHub(origins)

	userService := services.NewUserService(database)
	postService := services.NewPostService(database)
	commentService := services.NewCommentService(database)
	likeService := services.NewLikeService(database)
	projectService := services.NewProjectService(database, notifier)

	deps := router.Deps{
		DB:             database,
		Tokens:         tokens,
		AllowedOrigins: origins,
		Auth:           handlers.NewAuthHandler(userService, tokens, conf.HTTPServer.CookieDomain),
		Posts:          handlers.NewPostHandler(postService, commentService, likeService),
		Comments:       handlers.NewCommentHandler(commentService, likeService),
		Projects:       handlers.NewProjectHandler(projectService, hub),
		Hub:            hub,
	}

	r := router.NewRouter(deps)

	log.Info().Str("port", conf.HTTPServer.Port).Msg("starting server")

	if err := r.Run(":" + conf.HTTPServer.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

package router

import (
	"github.com/platebook/platebook/internal/application"
	"github.com/platebook/platebook/internal/container"
	pginfra "github.com/platebook/platebook/internal/infrastructure/postgres"
	handlers "github.com/platebook/platebook/internal/interface/http"
	"github.com/platebook/platebook/internal/router/modules"
)

// InitModules builds every feature module from the container singletons
// and registers it. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	posts := pginfra.NewPostRepository(pool)
	notifications := pginfra.NewNotificationRepository(pool)
	uow := pginfra.NewUnitOfWork(pool)

	userSvc := &application.UserService{
		Users:         users,
		Posts:         posts,
		Notifications: notifications,
		JWT:           container.GetJWT(),
		GCS:           container.GetGCS(),
		GCSBucket:     cfg.GCSBucket,
		Redis:         container.GetRedis(),
		Pub:           container.GetRabbitPub(),
		Logger:        logger,
		MailEnabled:   cfg.MailSendEnabled,
		ClientURL:     cfg.ClientURL,
		ResetTokenTTL: cfg.ResetTokenTTL,
	}
	postSvc := &application.PostService{
		Users:     users,
		Posts:     posts,
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
		Logger:    logger,
	}
	relationshipSvc := application.NewRelationshipService(uow, logger)
	engagementSvc := application.NewEngagementService(uow, logger)
	moderationSvc := application.NewModerationService(posts, container.GetRedis(), logger, container.GetES(), cfg.ESPostsIndex)
	feedSvc := application.NewFeedService(posts, container.GetRedis(), logger,
		cfg.GlobalFeedWindow, cfg.CommunityFeedWindow, cfg.GlobalFeedCacheTTL)
	recipeSvc := &application.RecipeService{
		URL:     cfg.RecommenderURL,
		Timeout: cfg.RecommenderTimeout,
		Logger:  logger,
	}

	userHandler := handlers.NewUserHandler(userSvc, relationshipSvc, logger)
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure), userHandler))
	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewPostModule(
		handlers.NewPostHandler(postSvc, engagementSvc, feedSvc, logger),
		handlers.NewModerationHandler(moderationSvc, logger),
	))
	r.Add(modules.NewRecipeModule(handlers.NewRecipeHandler(recipeSvc, logger)))
	r.Add(modules.NewDebugModule())
}

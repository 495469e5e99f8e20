package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blog-engagement/internal/config"
	"blog-engagement/internal/repository"
	"blog-engagement/internal/service/comment"
	"blog-engagement/internal/service/consistency"
	"blog-engagement/internal/service/like"
	"blog-engagement/internal/service/notification"
)

type Services struct {
	Comment      comment.Service
	Like         like.Service
	Notification notification.Service
	Consistency  consistency.Tracker
}

func NewServices(repos *repository.Repositories, redis *redis.Client, cfg *config.Config, log *zap.Logger) *Services {
	tracker := consistency.NewTracker(redis, log)
	notificationService := notification.NewService(repos.Notification, cfg.NotificationPageSize, log)

	commentService := comment.NewService(repos.Comment, repos.Post, tracker, redis, log, comment.Options{
		PageSize:        cfg.CommentPageSize,
		RankingCacheTTL: cfg.RankingCacheTTL,
	})
	commentService.SetNotificationService(notificationService)

	likeService := like.NewService(repos.Post, notificationService, tracker, log)

	return &Services{
		Comment:      commentService,
		Like:         likeService,
		Notification: notificationService,
		Consistency:  tracker,
	}
}

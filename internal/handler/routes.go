package handler

import (
	"github.com/gofiber/fiber/v2"

	"blog-engagement/internal/middleware"
)

// Register mounts the API under router. Reads of the comment tree are
// public; everything that writes or reads a user's own state needs a token.
func (h *Handlers) Register(router fiber.Router, jwtSecret string) {
	router.Get("/posts/:postId/comments", h.Comment.List)
	router.Get("/posts/:postId/activity", h.Comment.Activity)
	router.Get("/comments/:commentId/replies", h.Comment.ListReplies)

	protected := router.Group("", middleware.AuthRequired(jwtSecret))

	posts := protected.Group("/posts/:postId")
	posts.Post("/comments", h.Comment.Create)
	posts.Post("/comments/reconcile", h.Comment.ReconcileOrphans)
	posts.Post("/counters/resync", h.Comment.ResyncCounters)
	posts.Post("/like", h.Like.Toggle)
	posts.Get("/like", h.Like.IsLiked)

	protected.Delete("/comments/:commentId", h.Comment.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/count", h.Notification.Count)
	notifications.Get("/unseen", h.Notification.HasUnseen)

	protected.Get("/consistency/out-of-sync", h.Consistency.OutOfSync)
}

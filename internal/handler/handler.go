package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/middleware"
	"blog-engagement/internal/service"
)

type Handlers struct {
	Comment      *CommentHandler
	Like         *LikeHandler
	Notification *NotificationHandler
	Consistency  *ConsistencyHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Comment:      NewCommentHandler(services.Comment),
		Like:         NewLikeHandler(services.Like),
		Notification: NewNotificationHandler(services.Notification),
		Consistency:  NewConsistencyHandler(services.Consistency),
	}
}

func parseIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

func getSkipLimit(c *fiber.Ctx) domain.SkipLimit {
	return domain.SkipLimit{
		Skip:  c.QueryInt("skip", 0),
		Limit: c.QueryInt("limit", 0),
	}
}

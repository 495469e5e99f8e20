package handler

import (
	"github.com/gofiber/fiber/v2"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/middleware"
	"blog-engagement/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	query := domain.FeedQuery{
		Page:            c.QueryInt("page", 1),
		Filter:          domain.NotificationFilter(c.Query("filter", string(domain.FilterAll))),
		DeletedDocCount: c.QueryInt("deleted_doc_count", 0),
	}

	result, err := h.notifService.List(c.Context(), userID, query)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) Count(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	filter := domain.NotificationFilter(c.Query("filter", string(domain.FilterAll)))
	count, err := h.notifService.Count(c.Context(), userID, filter)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"total_docs": count,
	})
}

func (h *NotificationHandler) HasUnseen(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	unseen, err := h.notifService.HasUnseen(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"new_notification_available": unseen,
	})
}

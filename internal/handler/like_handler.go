package handler

import (
	"github.com/gofiber/fiber/v2"

	"blog-engagement/internal/middleware"
	"blog-engagement/internal/service/like"
)

type LikeHandler struct {
	likeService like.Service
}

func NewLikeHandler(likeService like.Service) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

type toggleLikeInput struct {
	LikedByUser bool `json:"liked_by_user"`
}

func (h *LikeHandler) Toggle(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := parseIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	var input toggleLikeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	liked, err := h.likeService.Toggle(c.Context(), postID, userID, input.LikedByUser)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"liked_by_user": liked})
}

func (h *LikeHandler) IsLiked(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := parseIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	liked, err := h.likeService.IsLikedByUser(c.Context(), postID, userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"liked_by_user": liked})
}

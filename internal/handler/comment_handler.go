package handler

import (
	"github.com/gofiber/fiber/v2"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/middleware"
	"blog-engagement/internal/service/comment"
)

type CommentHandler struct {
	commentService comment.Service
}

func NewCommentHandler(commentService comment.Service) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := parseIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	var input domain.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	input.PostID = postID

	created, err := h.commentService.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	comments, err := h.commentService.List(c.Context(), postID, getSkipLimit(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(comments)
}

func (h *CommentHandler) ListReplies(c *fiber.Ctx) error {
	commentID, err := parseIDParam(c, "commentId", "comment")
	if err != nil {
		return err
	}

	replies, err := h.commentService.ListReplies(c.Context(), commentID, getSkipLimit(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"replies": replies})
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	commentID, err := parseIDParam(c, "commentId", "comment")
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Context(), userID, commentID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *CommentHandler) ReconcileOrphans(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := parseIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	removed, err := h.commentService.ReconcileOrphans(c.Context(), userID, postID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"removed": removed})
}

func (h *CommentHandler) ResyncCounters(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := parseIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	activity, err := h.commentService.ResyncCounters(c.Context(), userID, postID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(activity)
}

func (h *CommentHandler) Activity(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	activity, err := h.commentService.GetActivity(c.Context(), postID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(activity)
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"blog-engagement/internal/service/consistency"
)

type ConsistencyHandler struct {
	tracker consistency.Tracker
}

func NewConsistencyHandler(tracker consistency.Tracker) *ConsistencyHandler {
	return &ConsistencyHandler{tracker: tracker}
}

// OutOfSync lists posts whose counters need a resync.
func (h *ConsistencyHandler) OutOfSync(c *fiber.Ctx) error {
	ids, err := h.tracker.OutOfSync(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"posts": ids})
}

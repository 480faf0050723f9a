package handler

import (
	"fmt"

	"github.com/fadilmartias/career-pulse/internal/dto"
	"github.com/fadilmartias/career-pulse/internal/usecase"
	"github.com/fadilmartias/career-pulse/internal/util"
	"github.com/gofiber/fiber/v2"
)

type ProgressHandler struct {
	uc *usecase.ProgressUsecase
}

func NewProgressHandler(uc *usecase.ProgressUsecase) *ProgressHandler {
	return &ProgressHandler{uc: uc}
}

func (h *ProgressHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/progress/:client", h.Get)
	app.Post("/progress/:client/toggle/:index", h.Toggle)
}

func (h *ProgressHandler) Get(c *fiber.Ctx) error {
	client := c.Params("client")
	completed, err := h.uc.Get(c.UserContext(), client)
	if err != nil {
		return respondError(c, "failed to load progress", err, fiber.StatusInternalServerError)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get progress",
		Data:    dto.ProgressDTO{ClientID: client, Completed: completed},
	})
}

func (h *ProgressHandler) Toggle(c *fiber.Ctx) error {
	client := c.Params("client")
	index, err := c.ParamsInt("index")
	if err != nil {
		return respondError(c, "index must be an integer", fmt.Errorf("%w: %v", usecase.ErrInvalidProgress, err), fiber.StatusBadRequest)
	}

	completed, err := h.uc.Toggle(c.UserContext(), client, index)
	if err != nil {
		return respondError(c, "failed to toggle progress", err, fiber.StatusInternalServerError)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success toggle progress",
		Data:    dto.ProgressDTO{ClientID: client, Completed: completed},
	})
}

package handler

import (
	"errors"

	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/fadilmartias/career-pulse/internal/usecase"
	"github.com/fadilmartias/career-pulse/internal/util"
	"github.com/gofiber/fiber/v2"
)

func errorStatus(err error, fallback int) int {
	switch {
	case errors.Is(err, usecase.ErrWorkspaceNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidProfile),
		errors.Is(err, model.ErrInvalidTargetJob),
		errors.Is(err, usecase.ErrInvalidProgress):
		return fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrNotReady),
		errors.Is(err, usecase.ErrStaleSession),
		errors.Is(err, usecase.ErrStudioSuperseded):
		return fiber.StatusConflict
	case errors.Is(err, usecase.ErrWorkspaceLimit):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, usecase.ErrCoreAnalysis):
		return fiber.StatusBadGateway
	}
	return fallback
}

func respondError(c *fiber.Ctx, message string, err error, fallback int) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    errorStatus(err, fallback),
		Message: message,
	}, err)
}

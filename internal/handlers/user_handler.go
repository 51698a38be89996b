package handlers

import (
	"errors"

	"github.com/denizocal/photostream/internal/dto"
	"github.com/denizocal/photostream/internal/middleware"
	"github.com/denizocal/photostream/internal/services"
	"github.com/denizocal/photostream/internal/store"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users services.UserDirectory
}

func NewUserHandler(users services.UserDirectory) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the profile of the authenticated user.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.users.FindByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		ProfileName: user.ProfileName,
		Email:       user.Email,
	})
}

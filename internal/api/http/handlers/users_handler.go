package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/service"
)

// UsersHandler exposes the caller's own profile.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// GetUserData handles GET /api/user/data.
func (h *UsersHandler) GetUserData(c *fiber.Ctx) error {
	userID, _ := auth.UserIDFromContext(c)
	user, err := h.users.GetUser(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(dto.UserDataReply{
		Success: true,
		UserData: dto.UserData{
			Name:              user.Name,
			IsAccountVerified: user.IsAccountVerified,
		},
	})
}

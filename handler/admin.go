package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/members/data/repository"
	"github.com/ncobase/members/middleware"
	"github.com/ncobase/members/service"
	"github.com/ncobase/members/structs"
	"github.com/ncobase/ncore/logging/logger"
)

// AdminHandler serves the admin panel and role elevation routes. All of its
// routes sit behind the admin role guard.
type AdminHandler struct {
	users  *service.UserService
	logger *logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users *service.UserService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		logger: log,
	}
}

// Panel lists all users with promote/demote controls.
func (h *AdminHandler) Panel(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "failed to list users", "error", err)
		c.String(http.StatusInternalServerError, "failed to load admin panel")
		return
	}

	session, _ := middleware.GetSession(c)

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Users":   users,
		"Current": session,
		"Error":   c.Query("error"),
	})
}

// Promote grants the admin role to the target user and returns to the panel.
func (h *AdminHandler) Promote(c *gin.Context) {
	h.setRole(c, h.users.Promote)
}

// Demote reverts the target user to the plain role and returns to the panel.
func (h *AdminHandler) Demote(c *gin.Context) {
	h.setRole(c, h.users.Demote)
}

func (h *AdminHandler) setRole(c *gin.Context, apply func(ctx context.Context, id string) (*structs.User, error)) {
	id := c.Param("id")

	if _, err := apply(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			c.Redirect(http.StatusFound, "/admin?error="+url.QueryEscape("user not found"))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to update role", "id", id, "error", err)
		c.Redirect(http.StatusFound, "/admin?error="+url.QueryEscape("failed to update role"))
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

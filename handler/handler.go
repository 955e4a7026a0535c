// Package handler exposes the HTTP surface of the membership site.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/members/middleware"
	"github.com/ncobase/members/service"
	"github.com/ncobase/members/structs"
	"github.com/ncobase/ncore/logging/logger"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth   *AuthHandler
	Page   *PageHandler
	Admin  *AdminHandler
	logger *logger.Logger
}

// NewHandler creates a new handler instance with all sub-handlers initialized.
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth, log),
		Page:   NewPageHandler(log),
		Admin:  NewAdminHandler(svc.User, log),
		logger: log,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Page.Home)

	r.GET("/signup", h.Auth.SignupForm)
	r.POST("/signup", h.Auth.Signup)
	r.GET("/login", h.Auth.LoginForm)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	r.GET("/members", middleware.RequireLogin(), h.Page.Members)

	admin := r.Group("/", middleware.RequireRole(structs.RoleAdmin))
	{
		admin.GET("/admin", h.Admin.Panel)
		admin.GET("/promote/:id", h.Admin.Promote)
		admin.GET("/demote/:id", h.Admin.Demote)
	}

	r.GET("/api/session", h.Auth.CurrentSession)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "404.html", nil)
	})
}

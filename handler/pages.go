package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/members/middleware"
	"github.com/ncobase/ncore/logging/logger"
)

// PageHandler renders the public and members-only pages.
type PageHandler struct {
	logger *logger.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(log *logger.Logger) *PageHandler {
	return &PageHandler{logger: log}
}

// Home renders the landing page, greeting by name when a session is present.
func (h *PageHandler) Home(c *gin.Context) {
	var name string
	if session, ok := middleware.GetSession(c); ok {
		name = session.UserName
	}

	c.HTML(http.StatusOK, "home.html", gin.H{"Name": name})
}

// Members renders the members-only page. The login guard runs before this
// handler, so a session is always present here.
func (h *PageHandler) Members(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	c.HTML(http.StatusOK, "members.html", gin.H{
		"Name":   session.UserName,
		"Images": []string{"img1.jpg", "img2.jpg", "img3.jpg"},
	})
}

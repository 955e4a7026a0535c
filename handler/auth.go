package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/members/middleware"
	"github.com/ncobase/members/service"
	"github.com/ncobase/ncore/logging/logger"
	"github.com/ncobase/ncore/net/cookie"
	"github.com/ncobase/ncore/net/resp"
)

// Messages shown on credential failures. Each deliberately covers several
// causes so the response shape never reveals which one occurred.
const (
	msgSignupRejected     = "User already exists or invalid input"
	msgInvalidCredentials = "User and password not found"
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	auth   *service.AuthService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: log,
	}
}

type signupForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// SignupForm renders the signup page.
func (h *AuthHandler) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"Message": nil})
}

// Signup validates the form, creates the user and binds a fresh session to
// the caller. Validation failures re-render the form before anything is
// hashed or persisted.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "signup.html", gin.H{"Message": firstValidationMessage(err)})
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if form.Name == "" || form.Email == "" {
		c.HTML(http.StatusOK, "signup.html", gin.H{"Message": "name and email must not be blank"})
		return
	}

	session, err := h.auth.Signup(c.Request.Context(), form.Name, form.Email, form.Password)
	if err != nil {
		c.HTML(http.StatusOK, "signup.html", gin.H{"Message": msgSignupRejected})
		return
	}

	h.setSessionCookie(c, session.Token)
	c.Redirect(http.StatusFound, "/members")
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Message": nil})
}

// Login verifies credentials and binds a fresh session to the caller. The
// failure message is identical for unknown email and wrong password.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"Message": firstValidationMessage(err)})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"Message": msgInvalidCredentials})
		return
	}

	h.setSessionCookie(c, session.Token)
	c.Redirect(http.StatusFound, "/members")
}

// Logout destroys the current session and clears the cookie. A request
// without a live session still redirects home.
func (h *AuthHandler) Logout(c *gin.Context) {
	if session, ok := middleware.GetSession(c); ok {
		if err := h.auth.Logout(c.Request.Context(), session.Token); err != nil {
			h.logger.Error(c.Request.Context(), "failed to destroy session", "error", err)
		}
	}

	cookie.ClearSessionID(c.Writer)
	c.Redirect(http.StatusFound, "/")
}

// CurrentSession returns the caller's session as JSON, for clients that
// need to introspect their login state.
func (h *AuthHandler) CurrentSession(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("not logged in"))
		return
	}

	resp.Success(c.Writer, session)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookie.SessionIDName,
		Value:    h.auth.SignCookie(token),
		MaxAge:   int(h.auth.SessionTTL() / time.Second),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// firstValidationMessage keeps form feedback to the first failure, the way
// the forms report a single field at a time.
func firstValidationMessage(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

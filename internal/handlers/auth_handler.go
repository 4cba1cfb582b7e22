package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/middleware"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/apiclient"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Login page messages
const (
	MsgLoginRequired    = "Vul je e-mailadres en wachtwoord in."
	MsgLoginInvalid     = "Ongeldige inloggegevens."
	MsgLoginUnavailable = "Inloggen is momenteel niet mogelijk. Probeer het later opnieuw."
)

// AuthHandler handles admin login and logout
type AuthHandler struct {
	client     *apiclient.Client
	jwtService *jwt.Service
	cookie     middleware.CookieConfig
	renderer   *Renderer
	logger     *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client *apiclient.Client, jwtService *jwt.Service, cookie middleware.CookieConfig, renderer *Renderer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		client:     client,
		jwtService: jwtService,
		cookie:     cookie,
		renderer:   renderer,
		logger:     logger,
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	next := middleware.SafeNext(c.Query("next"), "/dashboard")
	if middleware.GetSession(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, next)
		return
	}
	h.renderer.Page(c, http.StatusOK, "login.html", "", "Inloggen", gin.H{"Next": next})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	next := middleware.SafeNext(c.PostForm("next"), "/dashboard")

	fail := func(status int, message string) {
		h.renderer.Page(c, status, "login.html", "", "Inloggen", gin.H{
			"Next":  next,
			"Email": email,
			"Error": message,
		})
	}

	if email == "" || password == "" {
		fail(http.StatusUnprocessableEntity, MsgLoginRequired)
		return
	}

	backendToken, err := h.client.Login(c.Request.Context(), email, password)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest) {
			h.logger.WithField("email", email).Warn("Admin login rejected")
			fail(http.StatusUnauthorized, MsgLoginInvalid)
			return
		}
		h.logger.WithField("email", email).WithError(err).Error("Admin login failed")
		fail(http.StatusBadGateway, MsgLoginUnavailable)
		return
	}

	token, claims, err := h.jwtService.GenerateSessionToken(email, backendToken)
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign session token")
		fail(http.StatusInternalServerError, MsgLoginUnavailable)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, token)
	h.logger.WithFields(logrus.Fields{
		"email":      email,
		"session_id": claims.SessionID,
	}).Info("Admin logged in")

	c.Redirect(http.StatusSeeOther, next)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.GetSession(c)
	if session.IsAuthenticated() {
		h.logger.WithField("email", session.Email()).Info("Admin logged out")
	}
	middleware.ClearSessionCookie(c, h.cookie)
	c.Redirect(http.StatusSeeOther, "/")
}

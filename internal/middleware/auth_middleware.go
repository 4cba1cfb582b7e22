package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionContextKey is the key used to store the session in Gin context
const SessionContextKey = "session"

// Session is the admin login state of the current request. It is read once
// per request from the session cookie.
type Session struct {
	claims *jwt.Claims
}

// IsAuthenticated reports whether the request carries a valid admin session
func (s Session) IsAuthenticated() bool {
	return s.claims != nil
}

// BackendToken is the token forwarded to the backend on admin writes
func (s Session) BackendToken() string {
	if s.claims == nil {
		return ""
	}
	return s.claims.BackendToken
}

// Email is the address the admin logged in with
func (s Session) Email() string {
	if s.claims == nil {
		return ""
	}
	return s.claims.Email
}

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge int // seconds
}

// LoadSession creates a middleware that reads the session cookie and stores
// the resulting Session in the context. Invalid cookies are cleared.
func LoadSession(jwtService *jwt.Service, cookie CookieConfig, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := Session{}

		if value, err := c.Cookie(cookie.Name); err == nil && value != "" {
			claims, err := jwtService.ValidateSessionToken(value)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"path": c.Request.URL.Path,
					"ip":   c.ClientIP(),
				}).WithError(err).Info("Discarding invalid session cookie")
				ClearSessionCookie(c, cookie)
			} else {
				session.claims = claims
			}
		}

		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// GetSession returns the session stored by LoadSession
func GetSession(c *gin.Context) Session {
	value, exists := c.Get(SessionContextKey)
	if !exists {
		return Session{}
	}
	session, ok := value.(Session)
	if !ok {
		return Session{}
	}
	return session
}

// RequireAdmin redirects anonymous visitors to the login page
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c).IsAuthenticated() {
			c.Next()
			return
		}

		target := "/login"
		if next := c.Request.URL.RequestURI(); next != "" && next != "/" {
			target += "?next=" + url.QueryEscape(next)
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// SafeNext returns next when it is a local path, otherwise fallback
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

// SetSessionCookie writes the signed session token
func SetSessionCookie(c *gin.Context, cookie CookieConfig, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, token, cookie.MaxAge, "/", "", cookie.Secure, true)
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(c *gin.Context, cookie CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, "", -1, "/", "", cookie.Secure, true)
}

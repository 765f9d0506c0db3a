package controller

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"windfall/domain"
)

// sessionLoginUser is the session key holding the authenticated panel user
const sessionLoginUser = "LOGIN_USER"

// BaseController carries helpers shared by all controllers
type BaseController struct{}

// checkLogin gates a route group on an authenticated panel session
func (b *BaseController) checkLogin(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(sessionLoginUser) == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.Next()
}

// jsonError writes the error envelope with a status derived from the error
// kind. Storage and unknown failures are logged and reported without detail.
func jsonError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case domain.IsValidation(err), domain.IsWindowClosed(err):
		status = http.StatusBadRequest
		message = err.Error()
	case domain.IsUnauthorized(err):
		status = http.StatusUnauthorized
		message = err.Error()
	case domain.IsNotFound(err):
		status = http.StatusNotFound
		message = err.Error()
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

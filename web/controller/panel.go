package controller

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"windfall/config"
	"windfall/domain"
	"windfall/domain/entities"
	"windfall/domain/interfaces"
)

// PanelController serves the admin panel API: login, window control and the
// audit views.
type PanelController struct {
	BaseController

	windowService interfaces.WindowService
	stats         *SubmissionStats
}

// NewPanelController creates the panel controller and registers its routes
func NewPanelController(g *gin.RouterGroup, windowService interfaces.WindowService, stats *SubmissionStats) *PanelController {
	a := &PanelController{
		windowService: windowService,
		stats:         stats,
	}
	a.initRouter(g)
	return a
}

func (a *PanelController) initRouter(g *gin.RouterGroup) {
	g.POST("/login", a.login)
	g.POST("/logout", a.logout)

	api := g.Group("/api")
	api.Use(a.checkLogin)

	api.POST("/window/open", a.openWindow)
	api.GET("/window", a.windowState)
	api.GET("/claims", a.listClaims)
	api.GET("/epochs", a.listEpochs)
	api.GET("/stats", a.showStats)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *PanelController) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, domain.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}

	cfg := config.Get()

	// Both checks always run so a bad username costs the same as a bad
	// password
	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(cfg.AdminUsername)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(req.Password))
	if !usernameOK || passwordErr != nil {
		log.WithField("remoteIP", c.ClientIP()).Warn("Failed panel login attempt")
		jsonError(c, domain.UnauthorizedError{Reason: "invalid credentials"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionLoginUser, req.Username)
	if err := session.Save(); err != nil {
		jsonError(c, fmt.Errorf("failed to save session: %w", err))
		return
	}

	log.WithField("username", req.Username).Info("Panel login")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *PanelController) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := session.Save(); err != nil {
		jsonError(c, fmt.Errorf("failed to clear session: %w", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type openWindowRequest struct {
	DurationSeconds int64 `json:"durationSeconds"`
}

func (a *PanelController) openWindow(c *gin.Context) {
	var req openWindowRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, domain.ValidationError{Field: "body", Reason: "must be valid JSON"})
			return
		}
	}
	if req.DurationSeconds == 0 {
		req.DurationSeconds = config.Get().DefaultWindowSeconds
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	epoch, err := a.windowService.OpenWindow(c.Request.Context(), duration, entities.EpochSourceAdmin)
	if err != nil {
		jsonError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEpochView(epoch))
}

func (a *PanelController) windowState(c *gin.Context) {
	status, err := a.windowService.State(c.Request.Context())
	if err != nil {
		jsonError(c, err)
		return
	}

	// The panel sees winners unmasked
	c.JSON(http.StatusOK, gin.H{
		"open":             status.IsOpen,
		"remainingSeconds": status.RemainingSeconds,
		"recentWinners":    newClaimViews(status.RecentWinners),
	})
}

func (a *PanelController) listClaims(c *gin.Context) {
	claims, err := a.windowService.ListClaims(c.Request.Context(), queryLimit(c))
	if err != nil {
		jsonError(c, err)
		return
	}

	c.JSON(http.StatusOK, newClaimViews(claims))
}

func (a *PanelController) listEpochs(c *gin.Context) {
	epochs, err := a.windowService.RecentEpochs(c.Request.Context(), queryLimit(c))
	if err != nil {
		jsonError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEpochViews(epochs))
}

func (a *PanelController) showStats(c *gin.Context) {
	accepted, rejected, winners := a.stats.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"rejected": rejected,
		"winners":  winners,
	})
}

// queryLimit reads the optional limit query parameter, zero meaning default
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

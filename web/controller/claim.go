package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"windfall/domain"
	"windfall/domain/interfaces"
)

// ClaimController serves the public claim API
type ClaimController struct {
	BaseController

	windowService interfaces.WindowService
	stats         *SubmissionStats
}

// NewClaimController creates the public API controller and registers its routes
func NewClaimController(g *gin.RouterGroup, windowService interfaces.WindowService, stats *SubmissionStats) *ClaimController {
	a := &ClaimController{
		windowService: windowService,
		stats:         stats,
	}
	a.initRouter(g)
	return a
}

func (a *ClaimController) initRouter(g *gin.RouterGroup) {
	g.GET("/window", a.windowState)
	g.POST("/claims", a.submitClaim)
}

type submitClaimRequest struct {
	PayoutMethod string `json:"payoutMethod"`
	PayoutID     string `json:"payoutId"`
	CaptchaToken string `json:"captchaToken"`
}

type submitClaimResponse struct {
	Accepted  bool   `json:"accepted"`
	Winner    bool   `json:"winner"`
	Position  int64  `json:"position,omitempty"`
	ClaimID   int64  `json:"claimId"`
	Reference string `json:"reference"`
}

func (a *ClaimController) windowState(c *gin.Context) {
	status, err := a.windowService.State(c.Request.Context())
	if err != nil {
		jsonError(c, err)
		return
	}

	c.JSON(http.StatusOK, newWindowStateView(status))
}

func (a *ClaimController) submitClaim(c *gin.Context) {
	var req submitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.stats.recordRejected()
		jsonError(c, domain.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}

	result, err := a.windowService.Submit(c.Request.Context(), req.PayoutMethod, req.PayoutID, req.CaptchaToken, c.ClientIP())
	if err != nil {
		a.stats.recordRejected()
		jsonError(c, err)
		return
	}

	a.stats.recordAccepted(result.Winner)
	c.JSON(http.StatusOK, submitClaimResponse{
		Accepted:  result.Accepted,
		Winner:    result.Winner,
		Position:  result.Position,
		ClaimID:   result.ClaimID,
		Reference: result.Reference,
	})
}

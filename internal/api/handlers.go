// Package api exposes the leaderboard read surface over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/astrocraft-network/stats-api/internal/apierrors"
	"github.com/astrocraft-network/stats-api/internal/calendar"
	"github.com/astrocraft-network/stats-api/internal/leaderboard"
	"github.com/astrocraft-network/stats-api/internal/scoretype"
)

const (
	defaultLimit = 10
	maxLimit     = 100

	// How long a caller should wait before retrying a read that lost to an
	// in-flight reconstruction.
	retryAfterSeconds = 2
)

// Handlers serves leaderboard reads off the engine registry.
type Handlers struct {
	registry *leaderboard.Registry
}

func NewHandlers(registry *leaderboard.Registry) *Handlers {
	return &Handlers{registry: registry}
}

// RegisterRoutes mounts the read endpoints.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	group := r.Group("/api/leaderboards")
	group.GET("/:scoreType/:period", h.getTop)
	group.GET("/:scoreType/:period/players/:playerId", h.getStanding)
}

type topResponse struct {
	ScoreType scoretype.ScoreType `json:"scoreType"`
	Period    calendar.Period     `json:"period"`
	Lines     []leaderboard.Line  `json:"lines"`
}

func (h *Handlers) getTop(c *gin.Context) {
	engine, period, ok := h.resolve(c)
	if !ok {
		return
	}

	limit := int64(defaultLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			apierrors.Abort(c, apierrors.NewValidationError("limit must be a positive integer", err))
			return
		}
		limit = min(parsed, maxLimit)
	}

	lines, err := engine.FetchTop(c.Request.Context(), period, limit)
	if err != nil {
		switch {
		case errors.Is(err, leaderboard.ErrUpdateInProgress):
			apierrors.Abort(c, apierrors.NewContentionError(retryAfterSeconds))
		case errors.Is(err, leaderboard.ErrDocumentStream):
			apierrors.Abort(c, apierrors.NewUpstreamError("Entry log unavailable", err))
		default:
			apierrors.Abort(c, apierrors.ToAppError(err))
		}
		return
	}

	c.JSON(http.StatusOK, topResponse{
		ScoreType: engine.ScoreType(),
		Period:    period,
		Lines:     lines,
	})
}

type standingResponse struct {
	ScoreType scoretype.ScoreType `json:"scoreType"`
	Period    calendar.Period     `json:"period"`
	PlayerID  string              `json:"playerId"`
	Score     uint32              `json:"score"`
	Ranked    bool                `json:"ranked"`
}

func (h *Handlers) getStanding(c *gin.Context) {
	engine, period, ok := h.resolve(c)
	if !ok {
		return
	}
	playerID := c.Param("playerId")
	playerName := c.Query("playerName")

	score, ranked := engine.QueryStanding(
		c.Request.Context(),
		leaderboard.MemberID(playerID, playerName),
		period,
	)
	c.JSON(http.StatusOK, standingResponse{
		ScoreType: engine.ScoreType(),
		Period:    period,
		PlayerID:  playerID,
		Score:     score,
		Ranked:    ranked,
	})
}

// resolve parses the scoreType and period path params, aborting with a
// validation error on unknown tags.
func (h *Handlers) resolve(c *gin.Context) (*leaderboard.Engine, calendar.Period, bool) {
	st, err := scoretype.Parse(c.Param("scoreType"))
	if err != nil {
		apierrors.Abort(c, apierrors.NewValidationError("Unknown score type", err))
		return nil, "", false
	}
	period, err := calendar.ParsePeriod(c.Param("period"))
	if err != nil {
		apierrors.Abort(c, apierrors.NewValidationError("Unknown period", err))
		return nil, "", false
	}
	return h.registry.Engine(st), period, true
}

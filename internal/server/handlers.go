package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/scorecard/internal/assessment"
	"github.com/abhisek/scorecard/internal/store"
)

// PlanResponse is the body of a successful POST /api/plan.
type PlanResponse struct {
	Plan         []string `json:"plan"`
	Source       string   `json:"source"`
	Reason       string   `json:"reason,omitempty"`
	FocusSubject string   `json:"focusSubject,omitempty"`
}

// PlanEventDTO is one recorded plan outcome.
type PlanEventDTO struct {
	ID           int      `json:"id"`
	Timestamp    string   `json:"timestamp"`
	Student      string   `json:"student"`
	FocusSubject string   `json:"focusSubject"`
	Source       string   `json:"source"`
	Reason       string   `json:"reason,omitempty"`
	Steps        []string `json:"steps"`
	LatencyMs    int64    `json:"latencyMs"`
}

func (s *Server) handleDemo(c *gin.Context) {
	c.JSON(http.StatusOK, assessment.Demo())
}

func (s *Server) handlePlan(c *gin.Context) {
	snap, err := assessment.Decode(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := s.planner.GeneratePlan(c.Request.Context(), snap)

	c.JSON(http.StatusOK, PlanResponse{
		Plan:         res.Steps,
		Source:       string(res.Outcome.Source),
		Reason:       string(res.Outcome.Reason),
		FocusSubject: res.FocusSubject,
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "'limit' must be a positive integer"})
		return
	}

	events, err := s.history.QueryPlanEvents(c.Request.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		s.logger.Error("query plan events", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "cannot load plan history"})
		return
	}

	dtos := make([]PlanEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = PlanEventDTO{
			ID:           ev.ID,
			Timestamp:    ev.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
			Student:      ev.StudentName,
			FocusSubject: ev.FocusSubject,
			Source:       ev.Source,
			Reason:       ev.Reason,
			Steps:        ev.Steps,
			LatencyMs:    ev.LatencyMs,
		}
	}
	c.JSON(http.StatusOK, dtos)
}

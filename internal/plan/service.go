package plan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/scorecard/internal/assessment"
	"github.com/abhisek/scorecard/internal/llm"
	"github.com/abhisek/scorecard/internal/store"
)

// Purpose labels plan requests in the LLM event log.
const Purpose = "improvement-plan"

// ErrNoProvider is the outcome error when the service has no provider.
var ErrNoProvider = errors.New("no LLM provider configured")

// Recorder persists plan outcomes. store.EventRepo satisfies it.
type Recorder interface {
	AppendPlan(ctx context.Context, data store.PlanEventData) error
}

// Service turns an assessment snapshot into a 3-step improvement plan.
// It never fails: provider errors and unusable responses resolve to a
// local fallback plan.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
	recorder Recorder
}

// NewService creates a plan service. provider may be nil, in which case
// every call returns the secondary fallback. logger and recorder are
// optional.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger, recorder Recorder) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   logger.Named("plan"),
		recorder: recorder,
	}
}

// GeneratePlan builds a plan for the snapshot's focus subject. It makes at
// most one provider call and always returns StepCount steps.
func (s *Service) GeneratePlan(ctx context.Context, snap assessment.Snapshot) Result {
	start := time.Now()
	requestID := uuid.NewString()

	res := s.generate(llm.WithRequestID(ctx, requestID), snap)

	log := s.logger.With(
		zap.String("request_id", requestID),
		zap.String("student", snap.StudentName),
		zap.String("focus_subject", res.FocusSubject),
	)
	if res.Outcome.FellBack() {
		log.Warn("using fallback plan",
			zap.String("reason", string(res.Outcome.Reason)),
			zap.Error(res.Outcome.Err))
	} else {
		log.Debug("plan generated")
	}

	s.record(ctx, requestID, snap, res, time.Since(start))
	return res
}

// Steps is GeneratePlan collapsed to the plain list of steps.
func (s *Service) Steps(ctx context.Context, snap assessment.Snapshot) []string {
	return s.GeneratePlan(ctx, snap).Steps
}

func (s *Service) generate(ctx context.Context, snap assessment.Snapshot) Result {
	focus, ok := snap.FocusSubject()
	if !ok {
		return fallback(focus, ReasonNoSubjects, assessment.ErrNoSubjects)
	}
	if s.provider == nil {
		return fallback(focus, ReasonNoProvider, ErrNoProvider)
	}

	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.Request{
		System: planSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPlanUserMessage(snap.StudentName, focus)},
		},
		Schema:      PlanSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return fallback(focus, classifyProviderError(err), err)
	}

	steps, reason, err := decodePlan(resp.Content)
	if err != nil {
		return fallback(focus, reason, err)
	}
	return provided(steps, focus.Name)
}

// classifyProviderError separates responses that arrived but failed schema
// validation from transport and service failures. Both use the secondary
// fallback.
func classifyProviderError(err error) Reason {
	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return ReasonMalformed
	}
	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return ReasonMalformed
	}
	return ReasonProviderError
}

func (s *Service) record(ctx context.Context, requestID string, snap assessment.Snapshot, res Result, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}

	data := store.PlanEventData{
		RequestID:    requestID,
		StudentName:  snap.StudentName,
		FocusSubject: res.FocusSubject,
		Source:       string(res.Outcome.Source),
		Reason:       string(res.Outcome.Reason),
		Steps:        res.Steps,
		LatencyMs:    elapsed.Milliseconds(),
	}
	if res.Outcome.Err != nil {
		data.ErrorMessage = res.Outcome.Err.Error()
	}

	if err := s.recorder.AppendPlan(ctx, data); err != nil {
		s.logger.Warn("failed to record plan event",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

package trajectory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trajgen/trajgen/internal/platform/inference"
)

// SummaryFailurePolicy decides what a failed summary call does to a request
// that already holds a validated trajectory.
type SummaryFailurePolicy string

const (
	// SummaryFailureFail propagates the summary error and fails the request.
	SummaryFailureFail SummaryFailurePolicy = "fail"
	// SummaryFailureDegrade returns the trajectory with an empty summary.
	SummaryFailureDegrade SummaryFailurePolicy = "degrade"
)

// Options configures the generation pipeline. All fields come from process
// configuration; the service itself is stateless across calls.
type Options struct {
	SummaryMode    SummaryMode
	SummaryFailure SummaryFailurePolicy
	AgeMin         int
	AgeMax         int
}

// Service orchestrates prompt construction, the external completion calls,
// and strict validation of the returned data. The injected client owns the
// connection handling (including lazy one-time construction); the service
// never touches process-wide state.
type Service struct {
	client inference.Client
	logger zerolog.Logger
	opts   Options
}

func NewService(client inference.Client, logger zerolog.Logger, opts Options) *Service {
	if opts.SummaryMode == "" {
		opts.SummaryMode = SummaryDetailed
	}
	if opts.SummaryFailure == "" {
		opts.SummaryFailure = SummaryFailureFail
	}
	if opts.AgeMin == 0 && opts.AgeMax == 0 {
		opts.AgeMin, opts.AgeMax = 18, 100
	}
	return &Service{client: client, logger: logger, opts: opts}
}

// Opts exposes the active configuration so the UI can be driven by it.
func (s *Service) Opts() Options {
	return s.opts
}

// Generate runs the full pipeline in strict sequence: build prompt, request
// trajectory, parse, then (unless summaries are disabled) build the summary
// prompt and request the summary. No call is retried; any failure terminates
// the request with a typed error. When the summary failure policy is
// "degrade", a summary error is logged and the validated trajectory is
// returned with an empty summary instead.
func (s *Service) Generate(ctx context.Context, profile PatientProfile) (*GenerationResult, error) {
	if err := profile.Validate(s.opts.AgeMin, s.opts.AgeMax); err != nil {
		return nil, err
	}

	raw, err := s.client.ChatCompletion(ctx, inference.Request{
		Messages:    []inference.Message{{Role: "user", Content: BuildTrajectoryPrompt(profile)}},
		MaxTokens:   trajectoryMaxTokens,
		Temperature: trajectoryTemperature,
	})
	if err != nil {
		return nil, err
	}

	traj, err := ParseTrajectory(raw)
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{
		ID:         uuid.New(),
		Trajectory: traj,
	}

	if s.opts.SummaryMode == SummaryNone {
		return result, nil
	}

	summary, err := s.client.ChatCompletion(ctx, inference.Request{
		Messages:    []inference.Message{{Role: "user", Content: BuildSummaryPrompt(traj, s.opts.SummaryMode)}},
		MaxTokens:   summaryMaxTokens(s.opts.SummaryMode),
		Temperature: summaryTemperature,
	})
	if err != nil {
		if s.opts.SummaryFailure == SummaryFailureDegrade {
			s.logger.Warn().Err(err).
				Str("generation_id", result.ID.String()).
				Msg("summary call failed, returning trajectory without summary")
			return result, nil
		}
		return nil, err
	}

	result.Summary = strings.TrimSpace(summary)
	return result, nil
}

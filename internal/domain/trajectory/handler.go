package trajectory

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trajgen/trajgen/internal/platform/inference"
)

// ErrorMode decides how a failed generation reaches the client. ErrorModeError
// maps the failure to an HTTP error status; ErrorModePayload answers 200 with
// an error-shaped GenerationResult so the form's output area can display the
// description and the raw upstream text.
type ErrorMode string

const (
	ErrorModeError   ErrorMode = "error"
	ErrorModePayload ErrorMode = "payload"
)

type Handler struct {
	svc       *Service
	errorMode ErrorMode
	logger    zerolog.Logger
}

func NewHandler(svc *Service, errorMode ErrorMode, logger zerolog.Logger) *Handler {
	if errorMode == "" {
		errorMode = ErrorModeError
	}
	return &Handler{svc: svc, errorMode: errorMode, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/options", h.Options)
	api.POST("/trajectories", h.Generate)
}

type optionsResponse struct {
	Diagnoses     []string `json:"diagnoses"`
	Comorbidities []string `json:"comorbidities"`
	AgeMin        int      `json:"age_min"`
	AgeMax        int      `json:"age_max"`
	AgeDefault    int      `json:"age_default"`
	SummaryMode   string   `json:"summary_mode"`
}

// Options returns the closed label sets, age bounds, and the active summary
// verbosity so the form is driven by server configuration.
func (h *Handler) Options(c echo.Context) error {
	opts := h.svc.Opts()
	ageDefault := DefaultAge
	if ageDefault < opts.AgeMin || ageDefault > opts.AgeMax {
		ageDefault = (opts.AgeMin + opts.AgeMax) / 2
	}
	return c.JSON(http.StatusOK, optionsResponse{
		Diagnoses:     Diagnoses,
		Comorbidities: Comorbidities,
		AgeMin:        opts.AgeMin,
		AgeMax:        opts.AgeMax,
		AgeDefault:    ageDefault,
		SummaryMode:   string(opts.SummaryMode),
	})
}

// Generate handles one form submission.
func (h *Handler) Generate(c echo.Context) error {
	var profile PatientProfile
	if err := c.Bind(&profile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Input validation failures are client errors in every error mode.
	opts := h.svc.Opts()
	if err := profile.Validate(opts.AgeMin, opts.AgeMax); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.Generate(c.Request().Context(), profile)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// renderError maps a pipeline error to the configured surface. The failure is
// always logged; each request's failure is isolated to that request.
func (h *Handler) renderError(c echo.Context, err error) error {
	rid, _ := c.Get("request_id").(string)

	status := http.StatusInternalServerError
	raw := ""

	var cfgErr *inference.ConfigError
	var upErr *inference.UpstreamError
	var fmtErr *FormatError
	switch {
	case errors.As(err, &cfgErr):
		status = http.StatusInternalServerError
	case errors.As(err, &upErr):
		status = http.StatusBadGateway
	case errors.As(err, &fmtErr):
		status = http.StatusBadGateway
		raw = fmtErr.Raw
	}

	h.logger.Error().Err(err).
		Str("request_id", rid).
		Int("status", status).
		Msg("generation failed")

	if h.errorMode == ErrorModePayload {
		return c.JSON(http.StatusOK, &GenerationResult{
			ID:          uuid.New(),
			Error:       err.Error(),
			RawResponse: raw,
		})
	}

	return c.JSON(status, map[string]string{
		"error":        err.Error(),
		"raw_response": raw,
	})
}

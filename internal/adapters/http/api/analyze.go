package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/cylin-ms/scenara-sub003/internal/adapters/ingest"
	"github.com/cylin-ms/scenara-sub003/internal/app"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/pkg/logger"
)

// analyzeRequest mirrors the JSON body of POST /analyze. Omitted "now" means
// the server clock.
type analyzeRequest struct {
	Self              string         `json:"self"`
	Now               *time.Time     `json:"now,omitempty"`
	LookbackDays      int            `json:"lookback_days,omitempty"`
	Strict            bool           `json:"strict,omitempty"`
	RequireAllSources bool           `json:"require_all_sources,omitempty"`
	Sources           ingest.Payload `json:"sources"`
}

func (a analyzeRequest) request(clock func() time.Time) app.Request {
	now := clock().UTC()
	if a.Now != nil {
		now = *a.Now
	}
	return app.Request{
		Self:              model.Identity(a.Self),
		Now:               now,
		LookbackDays:      a.LookbackDays,
		Sources:           a.Sources.Sources(),
		Strict:            a.Strict,
		RequireAllSources: a.RequireAllSources,
	}
}

// AnalyzeHandler handles analysis requests.
type AnalyzeHandler struct {
	analyzer     Analyzer
	log          logger.Logger
	maxBodyBytes int64
	clock        func() time.Time
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(a Analyzer, log logger.Logger, maxBodyBytes int64, clock func() time.Time) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: a, log: log, maxBodyBytes: maxBodyBytes, clock: clock}
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, nil)
		return
	}

	var body analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			err = errors.Mark(errors.Wrapf(err, "%s: decode body", op), ErrBodyTooBig)
		} else {
			err = errors.Mark(errors.Wrapf(err, "%s: decode body", op), ErrBadRequest)
		}
		h.fail(w, r, err)
		return
	}

	rep, err := h.analyzer.Analyze(r.Context(), body.request(h.clock))
	if err != nil {
		h.fail(w, r, errors.Wrap(err, op))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *AnalyzeHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "analyze failed", logger.String("code", code), logger.Error(err))
	} else {
		h.log.Debug(r.Context(), "analyze rejected", logger.String("code", code), logger.Error(err))
	}
	writeError(w, status, code, err)
}

/*
handlers.go - HTTP API handlers for the premium determination engine

PURPOSE:
  Exposes the engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates to the orchestrator.

ENDPOINTS:
  POST   /api/quotes                     Run a premium determination
  GET    /api/reference/countries        List active countries
  GET    /api/reference/coverage-levels  List active coverage levels
  GET    /api/reference/risks            List active risk types
  GET    /api/health                     Liveness probe

STATUS MAPPING:
  400  Validation failure (any ERROR/CRITICAL finding); no pricing done
  200  APPROVED
  202  REQUIRES_MANUAL_REVIEW
  422  DECLINED
  500  Configuration inconsistency or storage failure

ERROR HANDLING:
  Validation failures return {"errors": [{field, message, severity}]}.
  Fatal request failures return {"error": "..."} with no internals leaked.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/warp/premium-engine/engine"
	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *engine.Engine

	// Reference is the loaded snapshot backing the cosmetic listing
	// endpoints. The engine itself always reads through its repository.
	Reference refdata.Dataset
}

// NewHandler creates a handler around the engine and reference snapshot.
func NewHandler(eng *engine.Engine, reference refdata.Dataset) *Handler {
	return &Handler{Engine: eng, Reference: reference}
}

// =============================================================================
// QUOTES
// =============================================================================

// CreateQuote runs one premium determination.
// POST /api/quotes
func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var body QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req, fieldErrs := body.ToCore()
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, ValidationFailureDTO{Errors: fieldErrs})
		return
	}

	outcome, err := h.Engine.Quote(r.Context(), req)
	if err != nil {
		// Config inconsistencies and vanished reference records are fatal
		// for the request; nothing here is retryable or the client's fault.
		writeError(w, http.StatusInternalServerError, "premium determination failed")
		return
	}

	if outcome.Failed() {
		writeJSON(w, http.StatusBadRequest, ValidationFailureDTO{Errors: toValidationDTOs(outcome.ValidationErrors)})
		return
	}

	writeJSON(w, decisionStatus(outcome.Underwriting.Decision), toQuoteResponse(outcome))
}

// decisionStatus maps the underwriting decision to an HTTP status.
func decisionStatus(d quote.Decision) int {
	switch d {
	case quote.DecisionDeclined:
		return http.StatusUnprocessableEntity
	case quote.DecisionManualReview:
		return http.StatusAccepted
	default:
		return http.StatusOK
	}
}

// =============================================================================
// REFERENCE LISTINGS
// =============================================================================

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCountryDTOs(h.Reference.Countries, time.Now()))
}

func (h *Handler) ListCoverageLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCoverageLevelDTOs(h.Reference.CoverageLevels, time.Now()))
}

func (h *Handler) ListRiskTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRiskTypeDTOs(h.Reference.RiskTypes, time.Now()))
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// JSON HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

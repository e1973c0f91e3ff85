package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/AmeyaMprojects/pilot-brief/internal/api/middleware"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/models"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/response"
	"github.com/AmeyaMprojects/pilot-brief/internal/briefing"
	"github.com/AmeyaMprojects/pilot-brief/internal/route"
)

// Briefer produces briefings and route analyses.
type Briefer interface {
	Brief(ctx context.Context, req briefing.Request) briefing.Outcome
	Analyze(ctx context.Context, req briefing.Request) (*briefing.Analysis, error)
}

// BriefingHandler handles briefing and route analysis endpoints.
type BriefingHandler struct {
	service Briefer
}

// NewBriefingHandler creates a new BriefingHandler.
func NewBriefingHandler(service Briefer) *BriefingHandler {
	return &BriefingHandler{service: service}
}

// CreateBriefing handles POST /v1/briefings.
func (h *BriefingHandler) CreateBriefing(w http.ResponseWriter, r *http.Request) {
	var input models.BriefingRequest
	if err := response.Decode(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	out := h.service.Brief(r.Context(), briefing.Request{
		Codes:           input.Route,
		IncludeCorridor: input.IncludeCorridor,
	})
	if out.Status == briefing.StatusError {
		writeBriefingError(w, r, input.Route, out.Err)
		return
	}

	resp := models.BriefingResponse{
		ID:                out.ID,
		Status:            string(out.Status),
		Text:              out.Text,
		Message:           out.Message,
		Tier:              string(out.Tier),
		Annotation:        string(out.Annotation),
		Cause:             out.Cause,
		RetryAfterSeconds: int(math.Ceil(out.RetryAfter.Seconds())),
		Corridor:          toCorridor(out.Corridor),
		WeatherSummary:    toWeatherSummary(out.WeatherSummary),
		GeneratedAt:       models.Timestamp(out.GeneratedAt),
	}
	if out.Route != nil {
		view := toRouteView(out.Route)
		resp.Route = &view

		codes := out.Route.Codes()
		for _, a := range out.Corridor {
			codes = append(codes, a.Code)
		}
		resp.Observations = toObservations(codes, out.Observations)
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// AnalyzeRoute handles POST /v1/routes:analyze. No weather is fetched.
func (h *BriefingHandler) AnalyzeRoute(w http.ResponseWriter, r *http.Request) {
	var input models.BriefingRequest
	if err := response.Decode(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	analysis, err := h.service.Analyze(r.Context(), briefing.Request{
		Codes:           input.Route,
		IncludeCorridor: input.IncludeCorridor,
	})
	if err != nil {
		writeBriefingError(w, r, input.Route, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.RouteAnalysis{
		Route:    toRouteView(analysis.Route),
		Corridor: toCorridor(analysis.Corridor),
	})
}

func writeBriefingError(w http.ResponseWriter, r *http.Request, codes []string, err error) {
	var routeErr *route.Error
	switch {
	case errors.As(err, &routeErr):
		field := routeErrorField(codes, routeErr)
		response.Error(w, r, models.NewInvalidRoute(
			middleware.GetRequestID(r.Context()), routeErr.Error(), field, string(routeErr.Kind)))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		response.ServiceUnavailable(w, r, "briefing did not complete in time")
	case errors.Is(err, briefing.ErrObservations):
		response.BadGateway(w, r, "weather observations are unavailable")
	default:
		response.InternalError(w, r, "briefing failed")
	}
}

// routeErrorField points at the offending route entry. Duplicates point at
// the repeat, not the first occurrence.
func routeErrorField(codes []string, err *route.Error) string {
	if err.Code == "" {
		return "route"
	}
	seen := false
	for i, c := range codes {
		if route.NormalizeCode(c) != err.Code {
			continue
		}
		if err.Kind != route.KindDuplicateCode || seen {
			return fmt.Sprintf("route[%d]", i)
		}
		seen = true
	}
	return "route"
}

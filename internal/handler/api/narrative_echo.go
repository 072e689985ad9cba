package api

import (
	"errors"
	"time"

	models "MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/engine"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NarrativeHandler exposes the dashboard HTTP endpoints.
type NarrativeHandler struct {
	logger  *xlogger.Logger
	builder *usecase.NarrativeBuilder
	store   domrepo.AssessmentStore // nil when history is disabled
	stream  *StreamHandler
}

func NewNarrativeHandler(logger *xlogger.Logger, builder *usecase.NarrativeBuilder, store domrepo.AssessmentStore, stream *StreamHandler) *NarrativeHandler {
	return &NarrativeHandler{logger: logger, builder: builder, store: store, stream: stream}
}

func (h *NarrativeHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api")
	g.POST("/narrative", h.Narrative)
	g.GET("/history", h.History)
	if h.stream != nil {
		g.GET("/stream", h.stream.Stream)
	}
}

func (h *NarrativeHandler) Narrative(c echo.Context) error {
	req := &models.NarrativeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	a, err := h.builder.Build(c.Request().Context(), req.Symbol, req.Profile())
	if err != nil {
		h.logger.Error("narrative build error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, classifyBuildError(err))
	}
	return xhttp.SuccessResponse(c, a)
}

func (h *NarrativeHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.store == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("history storage is disabled"))
	}

	rows, err := h.store.Recent(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		h.logger.Error("history query error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.InternalError("history query failed"))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *NarrativeHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			status["storage"] = "degraded"
		} else {
			status["storage"] = "ok"
		}
	}
	return xhttp.SuccessResponse(c, status)
}

// classifyBuildError maps builder failures onto HTTP statuses: bad
// input stays 400, everything upstream becomes 502.
func classifyBuildError(err error) error {
	var rangeErr *engine.InputRangeError
	if errors.As(err, &rangeErr) {
		return xhttp.BadRequestError(rangeErr.Error())
	}
	var cfgErr *engine.ConfigurationError
	if errors.As(err, &cfgErr) {
		return xhttp.InternalError(cfgErr.Error())
	}
	return xhttp.UpstreamErrorf("assessment unavailable: %v", err)
}

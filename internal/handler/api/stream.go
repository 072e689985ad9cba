package api

import (
	"net/http"
	"time"

	models "MarketLens/internal/domain/models"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// StreamHandler pushes periodically refreshed assessments to dashboard
// clients over a WebSocket.
type StreamHandler struct {
	logger   *xlogger.Logger
	builder  *usecase.NarrativeBuilder
	upgrader websocket.Upgrader
}

func NewStreamHandler(logger *xlogger.Logger, builder *usecase.NarrativeBuilder) *StreamHandler {
	return &StreamHandler{
		logger:  logger,
		builder: builder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Dashboard is served from another origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream upgrades the connection and pushes a fresh assessment every
// Interval seconds until the client disconnects.
func (h *StreamHandler) Stream(c echo.Context) error {
	req := &models.StreamRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err // upgrader already wrote the HTTP error
	}
	defer conn.Close()

	h.logger.Info("stream opened",
		xlogger.String("symbol", req.Symbol),
		xlogger.Int("interval_s", req.Interval),
	)

	ctx := c.Request().Context()
	profile := req.Profile()

	// Reader goroutine: drives disconnect detection and ping/pong.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() bool {
		a, err := h.builder.Build(ctx, req.Symbol, profile)
		if err != nil {
			h.logger.Warn("stream build failed",
				xlogger.String("symbol", req.Symbol),
				xlogger.Error(err),
			)
			msg := map[string]string{"error": "assessment unavailable"}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			return conn.WriteJSON(msg) == nil
		}
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(a) == nil
	}

	if !push() {
		return nil
	}

	ticker := time.NewTicker(time.Duration(req.Interval) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			h.logger.Debug("stream closed by client", xlogger.String("symbol", req.Symbol))
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !push() {
				return nil
			}
		}
	}
}

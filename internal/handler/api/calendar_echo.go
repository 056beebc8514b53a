package api

import (
	"net/http"

	models "FinDash/internal/domain/models"
	"FinDash/internal/usecase"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CalendarEchoHandler serves the economic calendar. Every response is 200.
type CalendarEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.CalendarUseCase
}

func NewCalendarEchoHandler(logger *xlogger.Logger, uc *usecase.CalendarUseCase) *CalendarEchoHandler {
	return &CalendarEchoHandler{logger: logger, uc: uc}
}

func (h *CalendarEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/economic-calendar", h.Calendar)
	g := e.Group("/api/economic-calendar")
	g.GET("", h.Calendar)
	g.GET("/indicators", h.Indicators)
}

// Calendar returns the history of ?indicator= when present, otherwise the
// ?period= view.
func (h *CalendarEchoHandler) Calendar(c echo.Context) error {
	req := &models.CalendarRequest{}
	if err := xhttp.ReadRequest(c, req); err != nil {
		if h.logger != nil {
			h.logger.Warn("calendar bind error", xlogger.Error(err))
		}
		req = &models.CalendarRequest{}
	}
	ctx := c.Request().Context()

	if req.Indicator != "" {
		return c.JSON(http.StatusOK, h.uc.History(ctx, req.Indicator))
	}
	return c.JSON(http.StatusOK, h.uc.Events(ctx, req.Period))
}

func (h *CalendarEchoHandler) Indicators(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"indicators": h.uc.Indicators()})
}

package api

import (
	"net/http"

	models "FinDash/internal/domain/models"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/usecase"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketEchoHandler serves the crypto, news and stock index widgets.
type MarketEchoHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.MarketUseCase
	limiter *ratelimit.Limiter
}

// NewMarketEchoHandler; limiter may be nil to disable throttling.
func NewMarketEchoHandler(logger *xlogger.Logger, uc *usecase.MarketUseCase, limiter *ratelimit.Limiter) *MarketEchoHandler {
	return &MarketEchoHandler{logger: logger, uc: uc, limiter: limiter}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", ratelimit.Middleware(h.limiter))
	g.GET("/crypto-prices", h.CryptoPrices)
	g.GET("/news", h.News)
	g.GET("/stock-indexes", h.StockIndexes)
}

func (h *MarketEchoHandler) CryptoPrices(c echo.Context) error {
	prices, err := h.uc.CryptoPrices(c.Request().Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Error("crypto usecase error", xlogger.Error(err))
		}
		return xhttp.PlainErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, prices)
}

func (h *MarketEchoHandler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return c.JSON(http.StatusOK, h.uc.News(c.Request().Context(), req.Limit))
}

func (h *MarketEchoHandler) StockIndexes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.StockIndexes(c.Request().Context()))
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/dto"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/shipping"
)

type ShippingHandler struct{}

func NewShippingHandler() *ShippingHandler {
	return &ShippingHandler{}
}

func (h *ShippingHandler) Estimate(c *gin.Context) {
	origin := c.Query("origin")
	dest := c.Query("destination")

	c.JSON(http.StatusOK, dto.ShippingEstimateResponse{
		Origin:        origin,
		Destination:   dest,
		EstimatedDays: shipping.EstimateDays(origin, dest),
	})
}

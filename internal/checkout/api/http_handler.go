package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mvcampos/papelaria-backend/internal/checkout/domain"
	"github.com/mvcampos/papelaria-backend/internal/checkout/service"
	"github.com/mvcampos/papelaria-backend/internal/platform/logger"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(cs service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs}
}

func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	cartRoutes := router.Group("/cart")
	{
		cartRoutes.POST("/confirm", h.ConfirmCart)
	}
}

func (h *CheckoutHandler) ConfirmCart(c *gin.Context) {
	var cart domain.Cart
	if err := c.ShouldBindJSON(&cart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	resp, err := h.checkoutService.ConfirmCart(c.Request.Context(), cart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrProductNotFound),
			errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("ConfirmCart Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm cart"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/blockforge/credit-ledger/internal/domain/error"
	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	"github.com/blockforge/credit-ledger/internal/domain/port/usecase"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/api/dto"
)

// CreditHandler handles credit ledger HTTP requests
type CreditHandler struct {
	creditUseCase usecase.CreditUseCase
	logger        coreport.Logger
}

// NewCreditHandler creates a new credit handler instance
func NewCreditHandler(creditUseCase usecase.CreditUseCase, logger coreport.Logger) *CreditHandler {
	return &CreditHandler{
		creditUseCase: creditUseCase,
		logger:        logger,
	}
}

// GetCredits handles GET /users/:userId/credits
func (h *CreditHandler) GetCredits(c *gin.Context) {
	userID := c.Param("userId")

	balance, err := h.creditUseCase.GetCredits(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "Error getting balance", userID, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  userID,
		Balance: balance,
	})
}

// Spend handles POST /users/:userId/credits/spend
func (h *CreditHandler) Spend(c *gin.Context) {
	userID := c.Param("userId")

	var req dto.SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequestBody,
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	charged, err := h.creditUseCase.SpendCredits(
		c.Request.Context(), userID, req.BlockID, req.InputData, req.DataSize, req.RunTime,
	)
	if err != nil {
		h.respondError(c, "Error spending credits", userID, err)
		return
	}

	balance, err := h.creditUseCase.GetCredits(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "Error getting balance after spend", userID, err)
		return
	}

	c.JSON(http.StatusOK, dto.SpendResponse{
		UserID:        userID,
		AmountCharged: charged,
		Balance:       balance,
	})
}

// TopUp handles POST /users/:userId/credits/top-up
func (h *CreditHandler) TopUp(c *gin.Context) {
	userID := c.Param("userId")

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequestBody,
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.creditUseCase.TopUpCredits(c.Request.Context(), userID, req.Amount); err != nil {
		h.respondError(c, "Error topping up credits", userID, err)
		return
	}

	balance, err := h.creditUseCase.GetCredits(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "Error getting balance after top-up", userID, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  userID,
		Balance: balance,
	})
}

// TopUpIntent handles POST /users/:userId/credits/top-up/intent
func (h *CreditHandler) TopUpIntent(c *gin.Context) {
	userID := c.Param("userId")

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequestBody,
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	checkoutURL, err := h.creditUseCase.TopUpIntent(c.Request.Context(), userID, req.Amount)
	if err != nil {
		h.respondError(c, "Error creating top-up intent", userID, err)
		return
	}

	c.JSON(http.StatusOK, dto.TopUpIntentResponse{
		UserID:      userID,
		CheckoutURL: checkoutURL,
	})
}

// Fulfill handles POST /credits/fulfill, the payment callback entry point
func (h *CreditHandler) Fulfill(c *gin.Context) {
	var req dto.FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequestBody,
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	err := h.creditUseCase.FulfillCheckout(c.Request.Context(), usecase.FulfillRequest{
		SessionID: req.SessionID,
		UserID:    req.UserID,
	})
	if err != nil {
		h.respondError(c, "Error fulfilling checkout", req.UserID, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to HTTP status codes
func (h *CreditHandler) respondError(c *gin.Context, message, userID string, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case domainerr.IsValidationError(err):
		statusCode = http.StatusBadRequest
	case domainerr.IsInsufficientBalanceError(err):
		statusCode = http.StatusPaymentRequired
	case domainerr.IsNotFoundError(err):
		statusCode = http.StatusNotFound
	case domainerr.IsDuplicateTransactionError(err):
		statusCode = http.StatusConflict
	case domainerr.IsExternalPaymentError(err):
		statusCode = http.StatusBadGateway
	}

	h.logger.Error(message, map[string]any{
		"user_id": userID,
		"error":   err.Error(),
		"status":  statusCode,
	})

	c.JSON(statusCode, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	})
}

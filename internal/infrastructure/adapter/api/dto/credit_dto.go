package dto

// BalanceResponse is the response for a balance query
type BalanceResponse struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
}

// SpendRequest charges a user for a block invocation
type SpendRequest struct {
	BlockID   string         `json:"blockId" binding:"required"`
	InputData map[string]any `json:"inputData"`
	DataSize  float64        `json:"dataSize"`
	RunTime   float64        `json:"runTime"`
}

// SpendResponse reports the amount charged for a block invocation
type SpendResponse struct {
	UserID        string `json:"userId"`
	AmountCharged int64  `json:"amountCharged"`
	Balance       int64  `json:"balance"`
}

// TopUpRequest credits a user, either immediately or through a checkout intent
type TopUpRequest struct {
	Amount int64 `json:"amount"`
}

// TopUpIntentResponse carries the checkout redirect URL
type TopUpIntentResponse struct {
	UserID      string `json:"userId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// FulfillRequest identifies the checkout to reconcile; exactly one of the
// fields must be set
type FulfillRequest struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

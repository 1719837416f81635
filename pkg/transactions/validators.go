package transactions

type TransactionItemPayload struct {
	BookID   string `json:"bookId" mod:"trim" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type CreateTransactionPayload struct {
	UserID string                   `json:"userId" mod:"trim" validate:"required"`
	Books  []TransactionItemPayload `json:"books" validate:"required,min=1,dive"`
}

// CreateTransactionResponse is the purchase receipt.
type CreateTransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	TotalQuantity int    `json:"total_quantity"`
	TotalPrice    int    `json:"total_price"`
}

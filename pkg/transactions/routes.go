package transactions

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all transaction routes. Purchases require
// authentication. The statistics route is registered before :transaction_id
// so echo matches the literal segment first.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authenticate echo.MiddlewareFunc) *Service {
	transactionService := NewService(db)

	h := &handler{
		transactionService: transactionService,
	}

	txns := e.Group("/transactions")
	txns.GET("", h.listTransactions)
	txns.GET("/statistics", h.statistics)
	txns.GET("/:transaction_id", h.retrieveTransaction)
	txns.POST("", h.createTransaction, authenticate)

	return transactionService
}

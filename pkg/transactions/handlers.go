package transactions

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/pustakahq/pustaka/pkg/payload"
)

type handler struct {
	transactionService *Service
}

func (h *handler) createTransaction(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateTransactionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	items := make([]PurchaseItem, 0, len(params.Books))
	for _, b := range params.Books {
		items = append(items, PurchaseItem{
			BookID:   b.BookID,
			Quantity: b.Quantity,
		})
	}

	txn, err := h.transactionService.CreateTransaction(ctx, params.UserID, items)
	if err != nil {
		return err
	}

	totalQuantity := 0
	for _, line := range txn.Books {
		totalQuantity += line.Quantity
	}

	return payload.JSON(c, http.StatusCreated, "Transaction created successfully", CreateTransactionResponse{
		TransactionID: txn.ID,
		TotalQuantity: totalQuantity,
		TotalPrice:    txn.Total,
	})
}

func (h *handler) listTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	txns, err := h.transactionService.ListTransactions(ctx)
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusOK, "Get all transactions successfully", txns)
}

func (h *handler) retrieveTransaction(c echo.Context) error {
	ctx := c.Request().Context()
	transactionID := c.Param("transaction_id")

	txn, err := h.transactionService.RetrieveTransaction(ctx, transactionID)
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusOK, "Get transaction detail successfully", txn)
}

func (h *handler) statistics(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.transactionService.GetStatistics(ctx)
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusOK, "Get transaction statistics successfully", stats)
}

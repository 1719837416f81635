package transactions

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pustakahq/pustaka/pkg/errcodes"
	"github.com/pustakahq/pustaka/pkg/models"
	"github.com/uptrace/bun"
)

// PurchaseItem is one requested line of a purchase.
type PurchaseItem struct {
	BookID   string
	Quantity int
}

// GenreSales is the number of purchase line items recorded against a genre.
type GenreSales struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Statistics summarizes all recorded purchases.
type Statistics struct {
	TotalTransactions       int         `json:"total_transactions"`
	AverageTransactionValue float64     `json:"average_transaction_value"`
	MostSoldGenre           *GenreSales `json:"most_sold_genre"`
	LeastSoldGenre          *GenreSales `json:"least_sold_genre"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateTransaction records a purchase of one or more books for a user. The
// whole write runs in a single database transaction: user lookup, book
// lookups, stock checks, stock decrements, and the transaction insert either
// all commit or all roll back.
//
// Stock decrements are conditional updates guarded by the current stock
// level, so two purchases racing for the last unit can never both commit
// even outside SQLite's single-writer guarantee.
func (svc *Service) CreateTransaction(ctx context.Context, userID string, items []PurchaseItem) (*models.Transaction, error) {
	if userID == "" || len(items) == 0 {
		return nil, errcodes.ValidationError("Request body must include userId and a non-empty array of books")
	}
	for _, item := range items {
		if item.BookID == "" || item.Quantity <= 0 {
			return nil, errcodes.ValidationError("Each book item requires a bookId and a positive quantity")
		}
	}

	txn := &models.Transaction{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.User)(nil)).
			Where("id = ?", userID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("User")
		}

		bookIDs := make([]string, 0, len(items))
		for _, item := range items {
			bookIDs = append(bookIDs, item.BookID)
		}

		var books []*models.Book
		err = tx.NewSelect().
			Model(&books).
			Where("b.id IN (?)", bun.In(bookIDs)).
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		booksByID := make(map[string]*models.Book, len(books))
		for _, book := range books {
			booksByID[book.ID] = book
		}

		missing := []string{}
		for _, id := range bookIDs {
			if _, ok := booksByID[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return errcodes.NotFoundf("Book(s) not found: %s", strings.Join(missing, ", "))
		}

		total := 0
		for _, item := range items {
			book := booksByID[item.BookID]
			if book.StockQuantity < item.Quantity {
				return errcodes.Conflictf("Insufficient stock for book: %s. Available: %d, Requested: %d", book.Title, book.StockQuantity, item.Quantity)
			}
			total += book.Price * item.Quantity
		}

		now := time.Now()

		// Decrement stock one book at a time, guarded by the current level.
		// RowsAffected != 1 means another purchase got there first.
		for _, item := range items {
			book := booksByID[item.BookID]

			res, err := tx.NewUpdate().
				Model((*models.Book)(nil)).
				Set("stock_quantity = stock_quantity - ?", item.Quantity).
				Set("updated_at = ?", now).
				Where("id = ?", book.ID).
				Where("stock_quantity >= ?", item.Quantity).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			affected, err := res.RowsAffected()
			if err != nil {
				return errors.WithStack(err)
			}
			if affected != 1 {
				return errcodes.Conflictf("Insufficient stock for book: %s. Available: %d, Requested: %d", book.Title, book.StockQuantity, item.Quantity)
			}
		}

		txn.ID = uuid.New().String()
		txn.CreatedAt = now
		txn.UpdatedAt = now
		txn.UserID = userID
		txn.Total = total

		_, err = tx.NewInsert().
			Model(txn).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		lineItems := make([]*models.TransactionBook, 0, len(items))
		for _, item := range items {
			lineItems = append(lineItems, &models.TransactionBook{
				ID:            uuid.New().String(),
				TransactionID: txn.ID,
				BookID:        item.BookID,
				Quantity:      item.Quantity,
			})
		}

		_, err = tx.NewInsert().
			Model(&lineItems).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return svc.loadTransaction(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// ListTransactions returns every transaction, newest first, with the user
// and line item book snapshots resolved.
func (svc *Service) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	var txns []*models.Transaction

	err := svc.db.NewSelect().
		Model(&txns).
		Relation("User", userColumns).
		Relation("Books").
		Relation("Books.Book", withDeletedBooks).
		Order("t.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return txns, nil
}

// RetrieveTransaction returns one transaction by id.
func (svc *Service) RetrieveTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	txn := &models.Transaction{}

	err := svc.db.NewSelect().
		Model(txn).
		Relation("User", userColumns).
		Relation("Books").
		Relation("Books.Book", withDeletedBooks).
		Where("t.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Transaction")
		}
		return nil, errors.WithStack(err)
	}

	return txn, nil
}

// GetStatistics aggregates sales numbers across all transactions. Genre
// counts tally line items, not quantities, tallied against non-deleted
// books. Ties between genres resolve by count order, then scan order.
func (svc *Service) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	count, err := svc.db.NewSelect().
		Model((*models.Transaction)(nil)).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	stats.TotalTransactions = count

	err = svc.db.NewSelect().
		Model((*models.Transaction)(nil)).
		ColumnExpr("COALESCE(AVG(t.total), 0)").
		Scan(ctx, &stats.AverageTransactionValue)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var sales []GenreSales
	err = svc.db.NewSelect().
		TableExpr("transaction_books AS tb").
		ColumnExpr("g.name AS name").
		ColumnExpr("COUNT(tb.id) AS count").
		Join("JOIN books AS b ON b.id = tb.book_id").
		Join("JOIN genres AS g ON g.id = b.genre_id").
		Where("b.deleted_at IS NULL").
		GroupExpr("g.id, g.name").
		Scan(ctx, &sales)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if len(sales) > 0 {
		sort.SliceStable(sales, func(i, j int) bool {
			return sales[i].Count > sales[j].Count
		})
		stats.MostSoldGenre = &sales[0]
		stats.LeastSoldGenre = &sales[len(sales)-1]
	}

	return stats, nil
}

// loadTransaction reloads a transaction with its relations inside the same
// database transaction that created it.
func (svc *Service) loadTransaction(ctx context.Context, tx bun.Tx, txn *models.Transaction) error {
	err := tx.NewSelect().
		Model(txn).
		Relation("User", userColumns).
		Relation("Books").
		Relation("Books.Book", withDeletedBooks).
		Where("t.id = ?", txn.ID).
		Scan(ctx)
	return errors.WithStack(err)
}

func userColumns(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Column("id", "email", "username")
}

// withDeletedBooks keeps book snapshots visible on historical transactions
// even after the book is soft deleted.
func withDeletedBooks(q *bun.SelectQuery) *bun.SelectQuery {
	return q.WhereAllWithDeleted()
}

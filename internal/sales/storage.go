package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"api_reports/internal/database"
)

// ErrEmptyID is returned when trying to store a sale with an empty ID.
var ErrEmptyID = errors.New("empty sale ID")

// detailsBatch bounds the IN list used to load line items.
const detailsBatch = 500

// Storage is the main interface for our sales storage layer.
type Storage interface {
	// List returns the sales matching f, newest first, with user and
	// line items loaded.
	List(ctx context.Context, f Filter) ([]*Sale, error)
}

// LocalStorage provides an in-memory implementation for storing sales.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[int64]*Sale
}

// NewLocalStorage instantiates a new LocalStorage for sales with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[int64]*Sale{},
	}
}

// Set stores a sale. Returns ErrEmptyID if the sale has no ID.
func (l *LocalStorage) Set(sale *Sale) error {
	if sale.ID == 0 {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[sale.ID] = sale
	return nil
}

// List filters the stored sales in memory.
func (l *LocalStorage) List(_ context.Context, f Filter) ([]*Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Sale, 0, len(l.m))
	for _, s := range l.m {
		if f.Matches(s) {
			result = append(result, s)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func sortNewestFirst(list []*Sale) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// SQLStorage reads sales from the relational store.
type SQLStorage struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSQLStorage creates a SQL-backed sales storage.
func NewSQLStorage(db *database.DB, logger *zap.Logger) *SQLStorage {
	return &SQLStorage{db: db, logger: logger}
}

// List runs the filtered query and then loads the line items in batches.
func (r *SQLStorage) List(ctx context.Context, f Filter) ([]*Sale, error) {
	query, args := buildListQuery(f)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("could not list sales: %w", err)
	}
	defer rows.Close()

	list := []*Sale{}
	index := map[int64]*Sale{}
	for rows.Next() {
		var (
			s         Sale
			userID    sql.NullInt64
			firstName sql.NullString
			lastName  sql.NullString
			email     sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Status, &s.TotalAmount, &userID, &firstName, &lastName, &email); err != nil {
			return nil, fmt.Errorf("could not scan sale row: %w", err)
		}
		if userID.Valid {
			s.User = &User{ID: userID.Int64, FirstName: firstName.String, LastName: lastName.String, Email: email.String}
		}
		s.Details = []*Detail{}
		list = append(list, &s)
		index[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	if err := r.loadDetails(ctx, list, index); err != nil {
		return nil, err
	}

	r.logger.Debug("sales listed", zap.Int("count", len(list)))
	return list, nil
}

func (r *SQLStorage) loadDetails(ctx context.Context, list []*Sale, index map[int64]*Sale) error {
	for start := 0; start < len(list); start += detailsBatch {
		end := min(start+detailsBatch, len(list))

		ids := make([]any, 0, end-start)
		for _, s := range list[start:end] {
			ids = append(ids, s.ID)
		}

		query := `SELECT d.id, d.sale_id, d.quantity, d.price_at_purchase, p.id, p.name
			FROM sale_details d
			LEFT JOIN products p ON p.id = d.product_id
			WHERE d.sale_id IN (` + database.Placeholders(len(ids)) + `)
			ORDER BY d.id ASC`

		rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), ids...)
		if err != nil {
			return fmt.Errorf("could not load sale details: %w", err)
		}

		for rows.Next() {
			var (
				d           Detail
				saleID      int64
				productID   sql.NullInt64
				productName sql.NullString
			)
			if err := rows.Scan(&d.ID, &saleID, &d.Quantity, &d.PriceAtPurchase, &productID, &productName); err != nil {
				rows.Close()
				return fmt.Errorf("could not scan sale detail: %w", err)
			}
			if productID.Valid {
				d.Product = &Product{ID: productID.Int64, Name: productName.String}
			}
			if s, ok := index[saleID]; ok {
				s.Details = append(s.Details, &d)
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("error iterating sale details: %w", err)
		}
	}
	return nil
}

func buildListQuery(f Filter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if f.StartDate != nil {
		where = append(where, "s.created_at >= ?")
		args = append(args, f.StartDate.UTC())
	}
	if f.EndDate != nil {
		where = append(where, "s.created_at < ?")
		args = append(args, f.EndDate.AddDate(0, 0, 1).UTC())
	}
	if f.Status != nil {
		where = append(where, "s.status = ?")
		args = append(args, string(*f.Status))
	}
	if f.UserID != nil {
		where = append(where, "s.user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.Customer != "" {
		like := "%" + strings.ToLower(f.Customer) + "%"
		where = append(where, "(LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ? OR LOWER(u.email) LIKE ?)")
		args = append(args, like, like, like)
	}
	if f.MinAmount != nil {
		where = append(where, "s.total_amount >= ?")
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		where = append(where, "s.total_amount <= ?")
		args = append(args, *f.MaxAmount)
	}
	if f.Product != "" {
		where = append(where, `EXISTS (SELECT 1 FROM sale_details d JOIN products p ON p.id = d.product_id
			WHERE d.sale_id = s.id AND LOWER(p.name) LIKE ?)`)
		args = append(args, "%"+strings.ToLower(f.Product)+"%")
	}

	query := `SELECT s.id, s.created_at, s.status, s.total_amount, u.id, u.first_name, u.last_name, u.email
		FROM sales s
		LEFT JOIN users u ON u.id = s.user_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.created_at DESC, s.id DESC"
	return query, args
}

// Create inserts a sale and its line items, filling in the generated IDs.
// Sales normally arrive through checkout; this is used for demo data.
func (r *SQLStorage) Create(ctx context.Context, s *Sale) error {
	var userID any
	if s.User != nil {
		userID = s.User.ID
	}

	id, err := r.db.Insert(ctx,
		"INSERT INTO sales (user_id, status, total_amount, created_at) VALUES (?, ?, ?, ?)",
		userID, string(s.Status), s.TotalAmount, s.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("could not create sale: %w", err)
	}
	s.ID = id

	for _, d := range s.Details {
		var productID any
		if d.Product != nil {
			productID = d.Product.ID
		}
		detailID, err := r.db.Insert(ctx,
			"INSERT INTO sale_details (sale_id, product_id, quantity, price_at_purchase) VALUES (?, ?, ?, ?)",
			s.ID, productID, d.Quantity, d.PriceAtPurchase)
		if err != nil {
			return fmt.Errorf("could not create sale detail: %w", err)
		}
		d.ID = detailID
	}

	r.logger.Info("sale created", zap.Int64("sale_id", s.ID), zap.Int("details", len(s.Details)))
	return nil
}

// Ensure both storages implement Storage
var (
	_ Storage = (*LocalStorage)(nil)
	_ Storage = (*SQLStorage)(nil)
)

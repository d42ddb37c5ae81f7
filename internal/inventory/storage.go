package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"api_reports/internal/database"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is a sellable item with its stock level.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// Storage persists products. AdjustStock must apply the delta atomically and
// refuse to leave the stock negative.
type Storage interface {
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	AdjustStock(ctx context.Context, id int64, delta int) (*Product, error)
}

// LocalStorage keeps products in memory.
type LocalStorage struct {
	mu     sync.Mutex
	m      map[int64]*Product
	nextID int64
}

func NewLocalStorage() *LocalStorage {
	return &LocalStorage{m: map[int64]*Product{}}
}

func (l *LocalStorage) Get(_ context.Context, id int64) (*Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	cp := *p
	return &cp, nil
}

func (l *LocalStorage) Create(_ context.Context, p *Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	p.ID = l.nextID
	cp := *p
	l.m[p.ID] = &cp
	return nil
}

func (l *LocalStorage) AdjustStock(_ context.Context, id int64, delta int) (*Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if p.Stock+delta < 0 {
		return nil, ErrInsufficientStock
	}
	p.Stock += delta
	cp := *p
	return &cp, nil
}

// SQLStorage keeps products in the relational store.
type SQLStorage struct {
	db     *database.DB
	logger *zap.Logger
}

func NewSQLStorage(db *database.DB, logger *zap.Logger) *SQLStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLStorage{db: db, logger: logger}
}

func (s *SQLStorage) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT id, name, price, stock FROM products WHERE id = ?"), id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get product: %w", err)
	}
	return &p, nil
}

func (s *SQLStorage) Create(ctx context.Context, p *Product) error {
	id, err := s.db.Insert(ctx,
		"INSERT INTO products (name, price, stock) VALUES (?, ?, ?)",
		p.Name, p.Price, p.Stock)
	if err != nil {
		return fmt.Errorf("could not create product: %w", err)
	}
	p.ID = id
	return nil
}

// AdjustStock applies delta in a single guarded UPDATE. When no row changes it
// tells a missing product from a stock that would go negative.
func (s *SQLStorage) AdjustStock(ctx context.Context, id int64, delta int) (*Product, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE products SET stock = stock + ? WHERE id = ? AND stock + ? >= 0"),
		delta, id, delta)
	if err != nil {
		return nil, fmt.Errorf("could not adjust stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not adjust stock: %w", err)
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrInsufficientStock
	}

	s.logger.Debug("stock adjusted", zap.Int64("product_id", id), zap.Int("delta", delta), zap.Int("stock", p.Stock))
	return p, nil
}

var (
	_ Storage = (*LocalStorage)(nil)
	_ Storage = (*SQLStorage)(nil)
)

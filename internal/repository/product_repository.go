package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-api/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductFilter narrows List results. Empty fields match everything.
type ProductFilter struct {
	Category string
	Brand    string
}

// ProductRepository defines the interface for product data access. It is the
// storage collaborator that assigns ids and creation times.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type productRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return NewProductRepositoryWithClock(db, time.Now)
}

// NewProductRepositoryWithClock creates a ProductRepository that stamps
// creation times from now.
func NewProductRepositoryWithClock(db *sql.DB, now func() time.Time) ProductRepository {
	return &productRepository{db: db, now: now}
}

const productColumns = `id, name, description, price, category, brand, image_url, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		id        int64
		c         domain.ProductCandidate
		price     decimal.Decimal
		createdAt time.Time
	)

	err := row.Scan(
		&id,
		&c.Name,
		&c.Description,
		&price,
		&c.Category,
		&c.Brand,
		&c.ImageURL,
		&createdAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	c.Price = &price

	product, err := domain.RestoreProduct(id, c, createdAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("stored product %d is invalid: %w", id, err)
	}
	return product, nil
}

// Create inserts a validated, unpersisted product and returns it with its
// assigned id and creation time.
func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.IsPersisted() {
		return domain.Product{}, domain.ErrAlreadyPersisted
	}

	// Postgres keeps microseconds; truncate so the returned value matches the row
	createdAt := r.now().UTC().Truncate(time.Microsecond)

	query := `
		INSERT INTO products (name, description, price, category, brand, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name(),
		product.Description(),
		product.Price(),
		product.Category(),
		product.Brand(),
		product.ImageURL(),
		createdAt,
	).Scan(&id)

	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	return product.Persist(id, createdAt)
}

// Update writes the mutable fields of a persisted product. created_at is never
// part of the statement.
func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	if !product.IsPersisted() {
		return domain.ErrInvalidIdentity
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5,
		    brand = $6, image_url = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID(),
		product.Name(),
		product.Description(),
		product.Price(),
		product.Category(),
		product.Brand(),
		product.ImageURL(),
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products matching filter, ordered by id
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Brand != "" {
		args = append(args, filter.Brand)
		conditions = append(conditions, fmt.Sprintf("brand = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY id ASC`, productColumns, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Exists reports whether a product with id is stored
func (r *productRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

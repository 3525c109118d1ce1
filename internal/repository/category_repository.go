package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategorySummary describes a category as derived from the products carrying it
type CategorySummary struct {
	Name         string   `json:"name"`
	ProductCount int64    `json:"productCount"`
	Brands       []string `json:"brands,omitempty"`
}

// CategoryRepository defines read access to the categories in use. Categories
// are free-form product attributes, so they exist only while a product has one.
type CategoryRepository interface {
	List(ctx context.Context) ([]CategorySummary, error)
	FindByName(ctx context.Context, name string) (CategorySummary, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List retrieves every category with its product count
func (r *categoryRepository) List(ctx context.Context) ([]CategorySummary, error) {
	query := `
		SELECT category, COUNT(*)
		FROM products
		GROUP BY category
		ORDER BY category ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []CategorySummary{}
	for rows.Next() {
		var category CategorySummary
		if err := rows.Scan(&category.Name, &category.ProductCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// FindByName retrieves one category with its product count and brands
func (r *categoryRepository) FindByName(ctx context.Context, name string) (CategorySummary, error) {
	query := `
		SELECT brand, COUNT(*)
		FROM products
		WHERE category = $1
		GROUP BY brand
		ORDER BY brand ASC
	`

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return CategorySummary{}, fmt.Errorf("failed to find category: %w", err)
	}
	defer rows.Close()

	category := CategorySummary{Name: name}
	for rows.Next() {
		var (
			brand string
			count int64
		)
		if err := rows.Scan(&brand, &count); err != nil {
			return CategorySummary{}, fmt.Errorf("failed to scan category brand: %w", err)
		}
		category.Brands = append(category.Brands, brand)
		category.ProductCount += count
	}

	if err = rows.Err(); err != nil {
		return CategorySummary{}, fmt.Errorf("error iterating category brands: %w", err)
	}

	if category.ProductCount == 0 {
		return CategorySummary{}, ErrCategoryNotFound
	}

	return category, nil
}

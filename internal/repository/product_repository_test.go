package repository

import (
	"context"
	"testing"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(t *testing.T, name, category, brand, price string) domain.Product {
	t.Helper()
	d := decimal.RequireFromString(price)
	p, err := domain.ValidateProduct(domain.ProductCandidate{
		Name:     name,
		Category: category,
		Brand:    brand,
		Price:    &d,
	})
	require.NoError(t, err)
	return p
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestProductRepository_CreateAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 10, 17, 9, 30, 0, 123456789, time.UTC)
	repo := NewProductRepositoryWithClock(testDB, fixedClock(at))

	created, err := repo.Create(ctx, newProduct(t, "Ultraboost", "Shoes", "Adidas", "180.00"))
	require.NoError(t, err)
	defer repo.Delete(ctx, created.ID())

	assert.Positive(t, created.ID())
	assert.True(t, created.CreatedAt().Equal(at.Truncate(time.Microsecond)))

	_, err = repo.Create(ctx, created)
	assert.ErrorIs(t, err, domain.ErrAlreadyPersisted)

	exists, err := repo.Exists(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProductRepository_IDsAreUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testDB)

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		created, err := repo.Create(ctx, newProduct(t, "Tee", "Apparel", "Adidas", "25"))
		require.NoError(t, err)
		defer repo.Delete(ctx, created.ID())

		assert.False(t, seen[created.ID()], "id %d assigned twice", created.ID())
		seen[created.ID()] = true
	}
}

func TestProductRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewProductRepositoryWithClock(testDB, fixedClock(at))

	created, err := repo.Create(ctx, newProduct(t, "Samba", "Shoes", "Adidas", "100"))
	require.NoError(t, err)
	defer repo.Delete(ctx, created.ID())

	price := decimal.RequireFromString("110.50")
	updated, err := created.Update(domain.ProductCandidate{
		Name: "Samba OG", Category: "Shoes", Brand: "Adidas", Price: &price,
		ImageURL: "https://example.com/samba.png",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, updated))

	found, err := repo.FindByID(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, found.Equal(updated))
	assert.True(t, found.CreatedAt().Equal(at))
}

func TestProductRepository_MissingRows(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testDB)

	_, err := repo.FindByID(ctx, -1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, -1), ErrProductNotFound)

	ghost, err := domain.RestoreProduct(1<<60, newProduct(t, "Ghost", "None", "Nobody", "1").Candidate(), time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(ctx, ghost), ErrProductNotFound)

	assert.ErrorIs(t, repo.Update(ctx, newProduct(t, "New", "Shoes", "Adidas", "1")), domain.ErrInvalidIdentity)

	exists, err := repo.Exists(ctx, -1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testDB)

	brand := "Brand " + uuid.NewString()
	var ids []int64
	for _, category := range []string{"Shoes", "Shoes", "Apparel"} {
		created, err := repo.Create(ctx, newProduct(t, "Item", category, brand, "10"))
		require.NoError(t, err)
		ids = append(ids, created.ID())
	}
	defer func() {
		for _, id := range ids {
			_ = repo.Delete(ctx, id)
		}
	}()

	all, err := repo.List(ctx, ProductFilter{Brand: brand})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Less(t, all[0].ID(), all[1].ID())

	shoes, err := repo.List(ctx, ProductFilter{Brand: brand, Category: "Shoes"})
	require.NoError(t, err)
	assert.Len(t, shoes, 2)
	for _, p := range shoes {
		assert.Equal(t, "Shoes", p.Category())
	}
}

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	repo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name, description, category string, cents int64, scale int32, imageURL string) bool {
			ctx := context.Background()

			price := decimal.New(cents, -scale)
			product, err := domain.ValidateProduct(domain.ProductCandidate{
				Name:        name,
				Description: description,
				Price:       &price,
				Category:    category,
				Brand:       "Adidas",
				ImageURL:    imageURL,
			})
			if err != nil {
				t.Logf("FAIL: generated candidate invalid: %v", err)
				return false
			}

			created, err := repo.Create(ctx, product)
			if err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}
			defer repo.Delete(ctx, created.ID())

			retrieved, err := repo.FindByID(ctx, created.ID())
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			// prices are exact, no float tolerance
			if !retrieved.Equal(created) {
				t.Logf("FAIL: retrieved %+v, created %+v", retrieved, created)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9][A-Za-z0-9 ]{2,49}`),
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{0,200}`),
		gen.RegexMatch(`[A-Za-z]{3,20}`),
		gen.Int64Range(0, 99_999_999),
		gen.Int32Range(0, 6),
		gen.RegexMatch(`https?://[a-z0-9]{1,20}\.com/[a-z0-9/._-]{1,50}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ProductDeletionRemovesFromCatalog(t *testing.T) {
	repo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("deleting a product makes it not retrievable", prop.ForAll(
		func(name string, cents int64) bool {
			ctx := context.Background()

			price := decimal.New(cents, -2)
			product, err := domain.ValidateProduct(domain.ProductCandidate{
				Name: name, Category: "Shoes", Brand: "Adidas", Price: &price,
			})
			if err != nil {
				return false
			}

			created, err := repo.Create(ctx, product)
			if err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			if err := repo.Delete(ctx, created.ID()); err != nil {
				t.Logf("FAIL: Failed to delete product: %v", err)
				return false
			}

			_, err = repo.FindByID(ctx, created.ID())
			if err != ErrProductNotFound {
				t.Logf("FAIL: Expected ErrProductNotFound after deletion, got: %v", err)
				return false
			}

			// deletion is a storage fact; the value itself is untouched
			return created.IsPersisted()
		},
		gen.RegexMatch(`[A-Za-z0-9][A-Za-z0-9 ]{2,49}`),
		gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

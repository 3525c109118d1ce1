package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Field names as they appear on the wire and in validation errors.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldBrand       = "brand"
	FieldImageURL    = "imageUrl"
	FieldCreatedAt   = "createdAt"
)

var validate = validator.New()

// ProductCandidate is an unvalidated set of field values proposed as a Product.
// A nil Price means the price was absent. PriceMalformed marks a price that
// was present but not a decimal number.
type ProductCandidate struct {
	Name           string
	Description    string
	Price          *decimal.Decimal
	PriceMalformed bool
	Category       string
	Brand          string
	ImageURL       string
}

// Product is a validated catalog item. Values are immutable; the only ways to
// obtain one are ValidateProduct, RestoreProduct, Update and Persist.
type Product struct {
	id          int64
	name        string
	description string
	price       decimal.Decimal
	category    string
	brand       string
	imageURL    string
	createdAt   time.Time
}

// ValidateProduct checks every rule against c and returns the normalized
// product, or a ValidationErrors listing all violations.
func ValidateProduct(c ProductCandidate) (Product, error) {
	p := Product{
		name:        strings.TrimSpace(c.Name),
		description: strings.TrimSpace(c.Description),
		category:    strings.TrimSpace(c.Category),
		brand:       strings.TrimSpace(c.Brand),
		imageURL:    strings.TrimSpace(c.ImageURL),
	}

	var errs ValidationErrors
	if p.name == "" {
		errs = append(errs, NewMissingField(FieldName))
	}
	if p.category == "" {
		errs = append(errs, NewMissingField(FieldCategory))
	}
	if p.brand == "" {
		errs = append(errs, NewMissingField(FieldBrand))
	}
	if c.PriceMalformed || c.Price == nil || c.Price.IsNegative() {
		errs = append(errs, NewInvalidValue(FieldPrice))
	} else {
		p.price = *c.Price
	}
	if p.imageURL != "" && !isWellFormedURI(p.imageURL) {
		errs = append(errs, NewInvalidValue(FieldImageURL))
	}

	if len(errs) > 0 {
		return Product{}, errs
	}
	return p, nil
}

func isWellFormedURI(s string) bool {
	return validate.Var(s, "url") == nil
}

// RestoreProduct rebuilds a persisted product from stored values. The stored
// fields are validated again so a corrupted row never becomes a Product.
func RestoreProduct(id int64, c ProductCandidate, createdAt time.Time) (Product, error) {
	p, err := ValidateProduct(c)
	if err != nil {
		return Product{}, err
	}
	return p.Persist(id, createdAt)
}

// Persist returns a copy of p carrying the storage-assigned id and creation
// time. It fails if p already has an identity.
func (p Product) Persist(id int64, createdAt time.Time) (Product, error) {
	if p.IsPersisted() {
		return Product{}, ErrAlreadyPersisted
	}
	if id <= 0 || createdAt.IsZero() {
		return Product{}, ErrInvalidIdentity
	}
	p.id = id
	p.createdAt = createdAt.UTC()
	return p, nil
}

// Update validates c and returns it as a product with p's id and creation time.
func (p Product) Update(c ProductCandidate) (Product, error) {
	next, err := ValidateProduct(c)
	if err != nil {
		return Product{}, err
	}
	next.id = p.id
	next.createdAt = p.createdAt
	return next, nil
}

// Candidate returns the mutable fields of p as a candidate.
func (p Product) Candidate() ProductCandidate {
	price := p.price
	return ProductCandidate{
		Name:        p.name,
		Description: p.description,
		Price:       &price,
		Category:    p.category,
		Brand:       p.brand,
		ImageURL:    p.imageURL,
	}
}

// Equal reports whether p and o hold the same values.
func (p Product) Equal(o Product) bool {
	return p.id == o.id &&
		p.name == o.name &&
		p.description == o.description &&
		p.price.Equal(o.price) &&
		p.category == o.category &&
		p.brand == o.brand &&
		p.imageURL == o.imageURL &&
		p.createdAt.Equal(o.createdAt)
}

func (p Product) ID() int64 { return p.id }
func (p Product) Name() string { return p.name }
func (p Product) Description() string { return p.description }
func (p Product) Price() decimal.Decimal { return p.price }
func (p Product) Category() string { return p.category }
func (p Product) Brand() string { return p.brand }
func (p Product) ImageURL() string { return p.imageURL }
func (p Product) CreatedAt() time.Time { return p.createdAt }
func (p Product) IsPersisted() bool { return p.id != 0 }

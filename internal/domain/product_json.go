package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// productJSON is the flat wire representation. Price is encoded as a decimal
// string so it never passes through float64.
type productJSON struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Brand       string           `json:"brand"`
	ImageURL    string           `json:"imageUrl"`
	CreatedAt   *time.Time       `json:"createdAt,omitempty"`
}

// PriceInput decodes a JSON price without failing the surrounding document.
// A value that is not a decimal number is kept as malformed so validation can
// report it next to the other violations. null leaves the price absent.
type PriceInput struct {
	Value     *decimal.Decimal
	Malformed bool
}

func (p *PriceInput) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PriceInput{}
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		*p = PriceInput{Malformed: true}
		return nil
	}
	*p = PriceInput{Value: &d}
	return nil
}

// Apply copies the decoded price into c
func (p PriceInput) Apply(c *ProductCandidate) {
	c.Price = p.Value
	c.PriceMalformed = p.Malformed
}

// productInputJSON is productJSON as accepted on decode
type productInputJSON struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       PriceInput `json:"price"`
	Category    string     `json:"category"`
	Brand       string     `json:"brand"`
	ImageURL    string     `json:"imageUrl"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// MarshalJSON encodes p with createdAt in RFC 3339 UTC. Unpersisted products
// omit createdAt.
func (p Product) MarshalJSON() ([]byte, error) {
	price := p.price
	out := productJSON{
		ID:          p.id,
		Name:        p.name,
		Description: p.description,
		Price:       &price,
		Category:    p.category,
		Brand:       p.brand,
		ImageURL:    p.imageURL,
	}
	if !p.createdAt.IsZero() {
		createdAt := p.createdAt.UTC()
		out.CreatedAt = &createdAt
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a wire payload and runs it through the same rules as
// ValidateProduct, so decoding can never produce an invalid Product. A payload
// with an id must also carry createdAt.
func (p *Product) UnmarshalJSON(data []byte) error {
	var in productInputJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	c := ProductCandidate{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Brand:       in.Brand,
		ImageURL:    in.ImageURL,
	}
	in.Price.Apply(&c)

	if in.ID == 0 {
		decoded, err := ValidateProduct(c)
		if err != nil {
			return err
		}
		*p = decoded
		return nil
	}

	var createdAt time.Time
	if in.CreatedAt != nil {
		createdAt = *in.CreatedAt
	}
	decoded, err := RestoreProduct(in.ID, c, createdAt)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

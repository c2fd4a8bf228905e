package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/orgsynth/internal/generate"
	"github.com/pdiddy/orgsynth/pkg/types"
)

// Product is something a company sells. Price is "<amount> <ISO currency>".
type Product struct {
	Name    string   `json:"Name" yaml:"name"`
	Price   string   `json:"Price" yaml:"price"`
	Company *Company `json:"-" yaml:"-"`
}

func (p *Product) String() string { return p.Name }

// Describe implements Describable.
func (p *Product) Describe() string {
	if p.Company == nil {
		return fmt.Sprintf("%s is a product priced at %s.", p.Name, p.Price)
	}
	return fmt.Sprintf("%s is a product created by %s priced at %s.", p.Name, p.Company.Name, p.Price)
}

const productPrompt = `Create a realistic product that could be on sale today from a company called %s based in %s that operates in the %s industry.
The JSON must have exactly three keys, Name, Description and Price: the product name, a single line description and its unit price.
Price must be a string in the format <AMOUNT> <ISO CURRENCY>, for example 84000 GBP.
The company name must not appear in the product name or the description.`

// NewProduct generates a product for c and appends it to c.Products. The
// generated description only guides generation and is not kept.
func NewProduct(ctx context.Context, b generate.Backend, c *Company) (*Product, error) {
	if c == nil {
		return nil, invalid("product", "no company given")
	}
	rec, err := generate.Structured[types.ProductRecord](ctx, b, generate.Request{
		Prompt:   fmt.Sprintf(productPrompt, c.Name, c.HomeLocation(), c.Industry),
		Location: c.HomeLocation(),
	})
	if err != nil {
		return nil, fmt.Errorf("generating product for %s: %w", c.Name, err)
	}

	p := &Product{Name: strings.TrimSpace(rec.Name), Price: rec.Price, Company: c}
	c.Products = append(c.Products, p)
	return p, nil
}

package catalog

import "github.com/shopspring/decimal"

// Product is one auto part as listed in the catalog source.
type Product struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	ImageURL           string          `json:"imageUrl"`
	Price              decimal.Decimal `json:"price"`
	Manufacturer       string          `json:"manufacturer"`
	ModelCompatibility []string        `json:"modelCompatibility"`
	PartNumber         string          `json:"partNumber"`
	Stock              int             `json:"stock"`
	Specifications     Specifications  `json:"specifications"`
}

// Specifications holds the free-text physical details of a part.
type Specifications struct {
	Weight     string `json:"weight"`
	Dimensions string `json:"dimensions"`
	Material   string `json:"material"`
}

// Clone returns a copy that shares no memory with p.
func (p Product) Clone() Product {
	out := p
	out.ModelCompatibility = make([]string, len(p.ModelCompatibility))
	copy(out.ModelCompatibility, p.ModelCompatibility)
	return out
}

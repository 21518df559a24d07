package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/go-faster/errors"
)

// record shadows Product.ID so a missing or null id can be told apart from 0.
type record struct {
	ID *int `json:"id"`
	Product
}

// Decode parses a JSON array of products. Field names are matched
// case-insensitively and unknown fields are ignored. Any record that breaks
// the catalog invariants fails the whole document.
func Decode(raw []byte) ([]Product, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, errors.New("document is null")
	}

	var recs []*record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}

	out := make([]Product, 0, len(recs))
	seen := make(map[int]int, len(recs))
	for i, r := range recs {
		if r == nil {
			return nil, errors.Errorf("record %d: null", i)
		}
		if r.ID == nil {
			return nil, errors.Errorf("record %d: missing id", i)
		}
		p := r.Product
		p.ID = *r.ID

		if prev, dup := seen[p.ID]; dup {
			return nil, errors.Errorf("record %d: duplicate id %d (first at record %d)", i, p.ID, prev)
		}
		seen[p.ID] = i
		if p.Price.IsNegative() {
			return nil, errors.Errorf("record %d (id %d): negative price %s", i, p.ID, p.Price)
		}
		if p.Stock < 0 {
			return nil, errors.Errorf("record %d (id %d): negative stock %d", i, p.ID, p.Stock)
		}
		if p.ModelCompatibility == nil {
			p.ModelCompatibility = []string{}
		}
		out = append(out, p)
	}
	return out, nil
}

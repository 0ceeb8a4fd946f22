package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection names. The schema per collection is documented on the
// corresponding domain type.
const (
	CollectionUsers         Collection = "users"
	CollectionCatalog       Collection = "catalog"
	CollectionGreenAssets   Collection = "green_assets"
	CollectionIndustryStats Collection = "industry_stats"
	CollectionReceipts      Collection = "receipts"
	CollectionInvoices      Collection = "invoices"
)

type Collection string

// Filter selects documents whose Field (a JSON string array) contains the
// lower-cased Contains term. The zero Filter matches every document.
type Filter struct {
	Field    string
	Contains string
}

// Store is document read and write access shared by the tools and the agent.
// Get returns errx.ErrNotFound (wrapped) when the document is absent; an
// empty Query result is valid, not an error.
type Store interface {
	Get(ctx context.Context, col Collection, id string) (json.RawMessage, error)
	Set(ctx context.Context, col Collection, id string, value any) error
	Query(ctx context.Context, col Collection, filter Filter, limit int) ([]json.RawMessage, error)
}

// GetAs fetches a document and decodes it into T.
func GetAs[T any](ctx context.Context, s Store, col Collection, id string) (*T, error) {
	raw, err := s.Get(ctx, col, id)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", col, id, err)
	}
	return &out, nil
}

// matchesFilter reports whether a raw document satisfies the filter. Both
// drivers query client-side; collections here are small seed-scale sets.
func matchesFilter(raw json.RawMessage, f Filter) bool {
	if f.Field == "" {
		return true
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	var values []string
	if err := json.Unmarshal(doc[f.Field], &values); err != nil {
		return false
	}
	for _, v := range values {
		if v == f.Contains {
			return true
		}
	}
	return false
}

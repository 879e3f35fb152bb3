// Package pricing turns raw line items into a validated, totaled,
// status-tagged proposal. It is pure computation over its input plus one
// catalog read; persistence belongs to the lifecycle engine.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"salescrm/internal/models"
)

var (
	// ErrInvalidReference means a line item names a product that does not
	// exist (or is trashed). The whole evaluation aborts; no partial result.
	ErrInvalidReference = errors.New("pricing: invalid product reference")
	// ErrValidation means malformed input: empty item list, non-positive
	// quantity or negative price.
	ErrValidation = errors.New("pricing: invalid line items")
)

// LineItem is one (product, quantity, offered unit price) tuple.
type LineItem struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// PricedItem is a line item with its computed subtotal.
type PricedItem struct {
	ProductID uint
	Quantity  int
	Price     float64
	Subtotal  float64
}

// Result is the outcome of Evaluate.
type Result struct {
	Total   float64
	Verdict string // models.ProjectStatusApproved or models.ProjectStatusWaiting
	Items   []PricedItem
}

// ProductFinder is the catalog lookup the engine depends on. Missing ids are
// absent from the result, never an error.
type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
}

type Engine struct {
	Catalog ProductFinder
}

func NewEngine(catalog ProductFinder) *Engine { return &Engine{Catalog: catalog} }

// Evaluate validates the items against the catalog in one batch lookup,
// computes subtotals and the grand total, and determines the verdict: any
// offered price strictly below the catalog selling price forces waiting
// (manager approval); otherwise approved. An offer exactly at catalog price
// does not need approval.
func (e *Engine) Evaluate(ctx context.Context, items []LineItem) (*Result, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item required", ErrValidation)
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		ids = append(ids, it.ProductID)
	}

	products, err := e.Catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	res := &Result{Verdict: models.ProjectStatusApproved, Items: make([]PricedItem, 0, len(items))}
	for _, it := range items {
		product, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidReference, it.ProductID)
		}
		subtotal := float64(it.Quantity) * it.Price
		res.Total += subtotal
		res.Items = append(res.Items, PricedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  subtotal,
		})
		if it.Price < product.Price {
			res.Verdict = models.ProjectStatusWaiting
		}
	}
	return res, nil
}

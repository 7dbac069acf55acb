package memory

import (
	"context"
	"sync"

	"github.com/kervanji/HisabX-sub001/pos"
)

// =============================================================================
// MEMORY INVENTORY - Stock collaborator (for testing/dev)
// =============================================================================

type Inventory struct {
	mu    sync.Mutex
	stock map[string]int

	// FailIncrease forces IncreaseStock to fail for a product id. Lets
	// tests exercise the reconciliation paths.
	FailIncrease map[string]error
}

func NewInventory() *Inventory {
	return &Inventory{stock: make(map[string]int)}
}

// SetStock seeds the units on hand for a product.
func (i *Inventory) SetStock(productID string, qty int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stock[productID] = qty
}

// Stock returns the units on hand for a product.
func (i *Inventory) Stock(productID string) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stock[productID]
}

func (i *Inventory) IncreaseStock(_ context.Context, productID string, qty int) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err, ok := i.FailIncrease[productID]; ok {
		return err
	}
	i.stock[productID] += qty
	return nil
}

func (i *Inventory) DecreaseStock(_ context.Context, productID string, qty int) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	available := i.stock[productID]
	if qty > available {
		return &pos.InsufficientStockError{ProductID: productID, Requested: qty, Available: available}
	}
	i.stock[productID] = available - qty
	return nil
}

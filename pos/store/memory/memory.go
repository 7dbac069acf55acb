/*
Package memory provides in-memory implementations of the pos storage and
inventory interfaces.

PURPOSE:
  Backs tests and local development. Mirrors the semantics of the SQLite
  store: atomic balance increments, referential integrity on customer
  delete, sequential voucher numbering, and snapshot/rollback unit of
  work. Records are deep-copied on the way in and out, so callers can
  never alias store state.

TRANSACTIONS:
  WithTx snapshots the whole dataset, runs the function against unlocked
  internals under the store lock, and restores the snapshot if the
  function fails. Commit is the absence of a rollback.

SEE ALSO:
  - pos/store.go: Interface contracts
  - store/sqlite/sqlite.go: Production implementation
*/
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kervanji/HisabX-sub001/ledger"
	"github.com/kervanji/HisabX-sub001/pos"
)

// =============================================================================
// STORE
// =============================================================================

type Store struct {
	mu   sync.RWMutex
	data *dataset
}

type dataset struct {
	customers map[string]*pos.Customer
	sales     map[string]*pos.Sale
	saleOrder []string
	vouchers  map[string]*pos.Voucher
	vOrder    []string
	returns   map[string]*pos.SaleReturn
	rOrder    []string
	counters  map[pos.VoucherType]int
}

func newDataset() *dataset {
	return &dataset{
		customers: make(map[string]*pos.Customer),
		sales:     make(map[string]*pos.Sale),
		vouchers:  make(map[string]*pos.Voucher),
		returns:   make(map[string]*pos.SaleReturn),
		counters:  make(map[pos.VoucherType]int),
	}
}

func New() *Store {
	return &Store{data: newDataset()}
}

// Repos returns repository adapters that lock per call. Use for reads
// and single-write operations outside a unit of work.
func (s *Store) Repos() pos.Repositories {
	return pos.Repositories{
		Customers: &customerRepo{s: s, locked: false},
		Sales:     &saleRepo{s: s, locked: false},
		Vouchers:  &voucherRepo{s: s, locked: false},
		Returns:   &returnRepo{s: s, locked: false},
	}
}

// WithTx snapshots the dataset and rolls back on error.
func (s *Store) WithTx(_ context.Context, fn func(pos.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	repos := pos.Repositories{
		Customers: &customerRepo{s: s, locked: true},
		Sales:     &saleRepo{s: s, locked: true},
		Vouchers:  &voucherRepo{s: s, locked: true},
		Returns:   &returnRepo{s: s, locked: true},
	}
	if err := fn(repos); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for id, cu := range d.customers {
		c.customers[id] = copyCustomer(cu)
	}
	for id, sa := range d.sales {
		c.sales[id] = copySale(sa)
	}
	c.saleOrder = append([]string(nil), d.saleOrder...)
	for id, v := range d.vouchers {
		c.vouchers[id] = copyVoucher(v)
	}
	c.vOrder = append([]string(nil), d.vOrder...)
	for id, r := range d.returns {
		c.returns[id] = copyReturn(r)
	}
	c.rOrder = append([]string(nil), d.rOrder...)
	for t, n := range d.counters {
		c.counters[t] = n
	}
	return c
}

// =============================================================================
// CUSTOMER REPOSITORY
// =============================================================================

type customerRepo struct {
	s      *Store
	locked bool // true inside WithTx: the store lock is already held
}

func (r *customerRepo) FindByID(_ context.Context, id string) (*pos.Customer, error) {
	if !r.locked {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	c, ok := r.s.data.customers[id]
	if !ok {
		return nil, pos.ErrNotFound
	}
	return copyCustomer(c), nil
}

func (r *customerRepo) Save(_ context.Context, c *pos.Customer) error {
	if !r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	stored := copyCustomer(c)
	// Balances move only through ApplyBalanceDelta: an update keeps the
	// balances already on record.
	if existing, ok := r.s.data.customers[c.ID]; ok {
		stored.BalanceByCurrency = existing.BalanceByCurrency
	}
	r.s.data.customers[c.ID] = stored
	return nil
}

func (r *customerRepo) Delete(_ context.Context, id string) error {
	if !r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	d := r.s.data
	if _, ok := d.customers[id]; !ok {
		return pos.ErrNotFound
	}
	for _, sa := range d.sales {
		if sa.CustomerID == id {
			return &pos.ValidationError{Field: "customerId", Reason: "customer has sales on record"}
		}
	}
	for _, v := range d.vouchers {
		if v.CustomerID == id {
			return &pos.ValidationError{Field: "customerId", Reason: "customer has vouchers on record"}
		}
	}
	for _, ret := range d.returns {
		if ret.CustomerID == id {
			return &pos.ValidationError{Field: "customerId", Reason: "customer has returns on record"}
		}
	}
	delete(d.customers, id)
	return nil
}

func (r *customerRepo) ApplyBalanceDelta(_ context.Context, customerID string, delta ledger.Money) error {
	if !r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	c, ok := r.s.data.customers[customerID]
	if !ok {
		return pos.ErrNotFound
	}
	if c.BalanceByCurrency == nil {
		c.BalanceByCurrency = make(map[ledger.Currency]decimal.Decimal)
	}
	c.BalanceByCurrency[delta.Currency] = c.BalanceByCurrency[delta.Currency].Add(delta.Amount)
	return nil
}

// =============================================================================
// SALE REPOSITORY
// =============================================================================

type saleRepo struct {
	s      *Store
	locked bool
}

func (r *saleRepo) FindByID(_ context.Context, id string) (*pos.Sale, error) {
	if !r.locked {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	sa, ok := r.s.data.sales[id]
	if !ok {
		return nil, pos.ErrNotFound
	}
	return copySale(sa), nil
}

func (r *saleRepo) FindByCustomer(_ context.Context, customerID string) ([]*pos.Sale, error) {
	if !r.locked {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var out []*pos.Sale
	for _, id := range r.s.data.saleOrder {
		if sa, ok := r.s.data.sales[id]; ok && sa.CustomerID == customerID {
			out = append(out, copySale(sa))
		}
	}
	return out, nil
}

func (r *saleRepo) Save(_ context.Context, sa *pos.Sale) error {
	if !r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.data.sales[sa.ID]; !ok {
		r.s.data.saleOrder = append(r.s.data.saleOrder, sa.ID)
	}
	r.s.data.sales[sa.ID] = copySale(sa)
	return nil
}

func (r *saleRepo) Delete(_ context.Context, id string) error {
	if !r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.data.sales[id]; !ok {
		return pos.ErrNotFound
	}
	delete(r.s.data.sales, id)
	return nil
}

// =============================================================================
// VOUCHER REPOSITORY
// =============================================================================

type voucherRepo struct {
	s      *Store
	locked bool
}

func (r *voucherRepo) FindByID(_ context.Context, id string) (*pos.Voucher, error) {
	if !r.locked {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	v, ok := r.s.data.vouchers[id]
	if !ok {
		return nil, pos.ErrNotFound
	}
	return copyVoucher(v), nil
}

func (r *voucherRepo) FindByCustomer(_ context.Context, customerID string) ([]*pos.Voucher, error) {
	if !r.locked {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var out []*pos.Voucher
	for _, id := range r.s.data.vOrder {
		if v, ok := r.s.data.vouchers[id]; ok && v.CustomerID == customerID {
			out = append(out, copyVoucher(v))
		}
	}
	return out, nil
}

func (r *voucherRepo) Save(_ context.Context, v *pos.Voucher) error {
	if !r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.data.vouchers[v.ID]; !ok {
		r.s.data.vOrder = append(r.s.data.vOrder, v.ID)
	}
	r.s.data.vouchers[v.ID] = copyVoucher(v)
	return nil
}

func (r *voucherRepo) NextNumber(_ context.Context, t pos.VoucherType) (int, error) {
	if !r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	r.s.data.counters[t]++
	return r.s.data.counters[t], nil
}

// =============================================================================
// RETURN REPOSITORY
// =============================================================================

type returnRepo struct {
	s      *Store
	locked bool
}

func (r *returnRepo) FindByID(_ context.Context, id string) (*pos.SaleReturn, error) {
	if !r.locked {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	ret, ok := r.s.data.returns[id]
	if !ok {
		return nil, pos.ErrNotFound
	}
	return copyReturn(ret), nil
}

func (r *returnRepo) FindByCustomer(_ context.Context, customerID string) ([]*pos.SaleReturn, error) {
	if !r.locked {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var out []*pos.SaleReturn
	for _, id := range r.s.data.rOrder {
		if ret, ok := r.s.data.returns[id]; ok && ret.CustomerID == customerID {
			out = append(out, copyReturn(ret))
		}
	}
	return out, nil
}

func (r *returnRepo) FindBySale(_ context.Context, saleID string) ([]*pos.SaleReturn, error) {
	if !r.locked {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var out []*pos.SaleReturn
	for _, id := range r.s.data.rOrder {
		if ret, ok := r.s.data.returns[id]; ok && ret.SaleID == saleID {
			out = append(out, copyReturn(ret))
		}
	}
	return out, nil
}

func (r *returnRepo) Save(_ context.Context, ret *pos.SaleReturn) error {
	if !r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.data.returns[ret.ID]; !ok {
		r.s.data.rOrder = append(r.s.data.rOrder, ret.ID)
	}
	r.s.data.returns[ret.ID] = copyReturn(ret)
	return nil
}

func (r *returnRepo) Delete(_ context.Context, id string) error {
	if !r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.data.returns[id]; !ok {
		return pos.ErrNotFound
	}
	delete(r.s.data.returns, id)
	return nil
}

// =============================================================================
// DEEP COPIES
// =============================================================================

func copyCustomer(c *pos.Customer) *pos.Customer {
	out := *c
	if c.BalanceByCurrency != nil {
		out.BalanceByCurrency = make(map[ledger.Currency]decimal.Decimal, len(c.BalanceByCurrency))
		for k, v := range c.BalanceByCurrency {
			out.BalanceByCurrency[k] = v
		}
	}
	return &out
}

func copySale(s *pos.Sale) *pos.Sale {
	out := *s
	out.Items = append([]pos.SaleItem(nil), s.Items...)
	return &out
}

func copyVoucher(v *pos.Voucher) *pos.Voucher {
	out := *v
	return &out
}

func copyReturn(r *pos.SaleReturn) *pos.SaleReturn {
	out := *r
	out.Items = append([]pos.ReturnItem(nil), r.Items...)
	return &out
}

/*
Package sqlite provides a SQLite-backed implementation of the pos storage
and inventory interfaces.

PURPOSE:
  Implements pos.Repositories, pos.UnitOfWork and pos.Inventory over
  SQLite. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  customers:          Customer records
  customer_balances:  One row per customer+currency, mutated only by
                      ApplyBalanceDelta
  sales, sale_items:  Invoices and their lines (items cascade on delete)
  vouchers:           Cash receipts/payments with per-type numbering
  voucher_counters:   Sequence source for voucher numbers
  sale_returns, sale_return_items: Merchandise returns
  inventory:          Units on hand per product

MONEY REPRESENTATION:
  All amounts are stored as decimal strings and recomputed with
  shopspring/decimal in Go. SQLite numeric affinity is floating point,
  which is not acceptable for money, so balance increments read the
  current value and write the exact new one - safe because every
  balance write happens inside a unit of work that the service
  serializes per customer, and SQLite WAL admits a single writer.

UNIT OF WORK:
  WithTx binds all repositories to one database/sql transaction. The
  primary record write and its balance delta commit or roll back
  together; a half-applied sale cannot be observed.

WAL MODE:
  The database is opened with WAL and foreign keys on: readers don't
  block, a single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/hisabx.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()
  svc := pos.NewService(store.Repos(), store, store, logger)

SEE ALSO:
  - pos/store.go: Interface contracts
  - pos/store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/kervanji/HisabX-sub001/ledger"
	"github.com/kervanji/HisabX-sub001/pos"
)

// Store implements pos.Repositories access, pos.UnitOfWork and
// pos.Inventory using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single pooled connection also keeps
	// ":memory:" databases from being recreated per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		created_at TEXT NOT NULL
	);

	-- Per-currency balances. Written exclusively by ApplyBalanceDelta.
	CREATE TABLE IF NOT EXISTS customer_balances (
		customer_id TEXT NOT NULL REFERENCES customers(id),
		currency TEXT NOT NULL,
		balance TEXT NOT NULL,
		PRIMARY KEY (customer_id, currency)
	);

	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		invoice_number TEXT,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		sale_date TEXT NOT NULL,
		currency TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		discount_amount TEXT NOT NULL,
		final_amount TEXT NOT NULL,
		paid_amount TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		location TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_customer
		ON sales(customer_id);
	CREATE INDEX IF NOT EXISTS idx_sales_customer_date
		ON sales(customer_id, sale_date);

	CREATE TABLE IF NOT EXISTS sale_items (
		id TEXT PRIMARY KEY,
		sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		discount TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sale_items_sale
		ON sale_items(sale_id);

	CREATE TABLE IF NOT EXISTS vouchers (
		id TEXT PRIMARY KEY,
		voucher_type TEXT NOT NULL,
		number INTEGER NOT NULL,
		customer_id TEXT,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		voucher_date TEXT NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0,
		location TEXT,
		notes TEXT,
		created_at TEXT NOT NULL,
		UNIQUE (voucher_type, number)
	);

	CREATE INDEX IF NOT EXISTS idx_vouchers_customer
		ON vouchers(customer_id);

	-- Sequence source for per-type voucher numbers.
	CREATE TABLE IF NOT EXISTS voucher_counters (
		voucher_type TEXT PRIMARY KEY,
		next INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sale_returns (
		id TEXT PRIMARY KEY,
		sale_id TEXT NOT NULL,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		return_date TEXT NOT NULL,
		currency TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_returns_customer
		ON sale_returns(customer_id);
	CREATE INDEX IF NOT EXISTS idx_returns_sale
		ON sale_returns(sale_id);

	CREATE TABLE IF NOT EXISTS sale_return_items (
		id TEXT PRIMARY KEY,
		return_id TEXT NOT NULL REFERENCES sale_returns(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		condition TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_return_items_return
		ON sale_return_items(return_id);

	CREATE TABLE IF NOT EXISTS inventory (
		product_id TEXT PRIMARY KEY,
		stock INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// querier abstracts *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repos returns repositories bound to the shared connection, for reads
// and single writes outside a unit of work.
func (s *Store) Repos() pos.Repositories {
	return s.reposFor(s.db)
}

func (s *Store) reposFor(q querier) pos.Repositories {
	return pos.Repositories{
		Customers: &customerRepo{s: s, q: q},
		Sales:     &saleRepo{s: s, q: q},
		Vouchers:  &voucherRepo{s: s, q: q},
		Returns:   &returnRepo{s: s, q: q},
	}
}

// WithTx implements pos.UnitOfWork over a database/sql transaction.
func (s *Store) WithTx(ctx context.Context, fn func(pos.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.reposFor(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// CUSTOMER REPOSITORY
// =============================================================================

type customerRepo struct {
	s *Store
	q querier
}

func (r *customerRepo) FindByID(ctx context.Context, id string) (*pos.Customer, error) {
	c := &pos.Customer{BalanceByCurrency: map[ledger.Currency]decimal.Decimal{}}
	var createdAt string
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), created_at
		 FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	rows, err := r.q.QueryContext(ctx,
		`SELECT currency, balance FROM customer_balances WHERE customer_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var currency, balance string
		if err := rows.Scan(&currency, &balance); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance for %s/%s: %w", id, currency, err)
		}
		c.BalanceByCurrency[ledger.Currency(currency)] = d
	}
	return c, rows.Err()
}

func (r *customerRepo) Save(ctx context.Context, c *pos.Customer) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO customers (id, name, phone, address, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name,
		   phone = excluded.phone, address = excluded.address`,
		c.ID, c.Name, c.Phone, c.Address, fmtTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id string) error {
	// Referential integrity: a customer referenced by any financial
	// record must not be destroyed.
	var refs int
	err := r.q.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM sales WHERE customer_id = ?)
		     + (SELECT COUNT(*) FROM vouchers WHERE customer_id = ?)
		     + (SELECT COUNT(*) FROM sale_returns WHERE customer_id = ?)`,
		id, id, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to check references: %w", err)
	}
	if refs > 0 {
		return &pos.ValidationError{Field: "customerId", Reason: "customer has financial records"}
	}

	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM customer_balances WHERE customer_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete balances: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pos.ErrNotFound
	}
	return nil
}

// ApplyBalanceDelta adds delta to the customer's balance in one
// currency. The read and write happen in the caller's transaction and
// the service serializes per customer, so the increment cannot lose
// updates. Amounts stay exact decimal strings end to end.
func (r *customerRepo) ApplyBalanceDelta(ctx context.Context, customerID string, delta ledger.Money) error {
	var exists int
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE id = ?`, customerID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return pos.ErrNotFound
	}

	current := decimal.Zero
	var stored string
	err := r.q.QueryRowContext(ctx,
		`SELECT balance FROM customer_balances WHERE customer_id = ? AND currency = ?`,
		customerID, string(delta.Currency)).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first movement in this currency
	case err != nil:
		return fmt.Errorf("failed to read balance: %w", err)
	default:
		current, err = decimal.NewFromString(stored)
		if err != nil {
			return fmt.Errorf("corrupt balance for %s/%s: %w", customerID, delta.Currency, err)
		}
	}

	next := current.Add(delta.Amount)
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO customer_balances (customer_id, currency, balance)
		 VALUES (?, ?, ?)
		 ON CONFLICT(customer_id, currency) DO UPDATE SET balance = excluded.balance`,
		customerID, string(delta.Currency), next.String())
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}
	return nil
}

// =============================================================================
// SALE REPOSITORY
// =============================================================================

type saleRepo struct {
	s *Store
	q querier
}

func (r *saleRepo) FindByID(ctx context.Context, id string) (*pos.Sale, error) {
	sales, err := r.query(ctx, `WHERE s.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, pos.ErrNotFound
	}
	return sales[0], nil
}

func (r *saleRepo) FindByCustomer(ctx context.Context, customerID string) ([]*pos.Sale, error) {
	return r.query(ctx, `WHERE s.customer_id = ?`, customerID)
}

func (r *saleRepo) query(ctx context.Context, where string, args ...any) ([]*pos.Sale, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT s.id, COALESCE(s.invoice_number, ''), s.customer_id, s.sale_date,
		       s.currency, s.total_amount, s.discount_amount, s.final_amount,
		       s.paid_amount, s.payment_status, COALESCE(s.location, ''), s.created_at
		FROM sales s `+where+` ORDER BY s.created_at ASC, s.id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []*pos.Sale
	for rows.Next() {
		sa := &pos.Sale{}
		var saleDate, createdAt, total, discount, final, paid, status string
		if err := rows.Scan(&sa.ID, &sa.InvoiceNumber, &sa.CustomerID, &saleDate,
			(*string)(&sa.Currency), &total, &discount, &final, &paid, &status,
			&sa.Location, &createdAt); err != nil {
			return nil, err
		}
		sa.Date, _ = time.Parse(time.RFC3339Nano, saleDate)
		sa.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		sa.PaymentStatus = pos.PaymentStatus(status)
		if sa.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		if sa.DiscountAmount, err = decimal.NewFromString(discount); err != nil {
			return nil, err
		}
		if sa.FinalAmount, err = decimal.NewFromString(final); err != nil {
			return nil, err
		}
		if sa.PaidAmount, err = decimal.NewFromString(paid); err != nil {
			return nil, err
		}
		sales = append(sales, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sa := range sales {
		if err := r.loadItems(ctx, sa); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (r *saleRepo) loadItems(ctx context.Context, sa *pos.Sale) error {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, product_id, quantity, unit_price, discount
		 FROM sale_items WHERE sale_id = ? ORDER BY rowid ASC`, sa.ID)
	if err != nil {
		return fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it pos.SaleItem
		var price, discount string
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &price, &discount); err != nil {
			return err
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return err
		}
		if it.Discount, err = decimal.NewFromString(discount); err != nil {
			return err
		}
		sa.Items = append(sa.Items, it)
	}
	return rows.Err()
}

func (r *saleRepo) Save(ctx context.Context, sa *pos.Sale) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sales (id, invoice_number, customer_id, sale_date, currency,
		                   total_amount, discount_amount, final_amount, paid_amount,
		                   payment_status, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  paid_amount = excluded.paid_amount,
		  payment_status = excluded.payment_status`,
		sa.ID, sa.InvoiceNumber, sa.CustomerID,
		fmtTime(sa.Date), string(sa.Currency),
		sa.TotalAmount.String(), sa.DiscountAmount.String(), sa.FinalAmount.String(),
		sa.PaidAmount.String(), string(sa.PaymentStatus), sa.Location,
		fmtTime(sa.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save sale: %w", err)
	}

	for _, it := range sa.Items {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, discount)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
			it.ID, sa.ID, it.ProductID, it.Quantity,
			it.UnitPrice.String(), it.Discount.String())
		if err != nil {
			return fmt.Errorf("failed to save sale item: %w", err)
		}
	}
	return nil
}

func (r *saleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pos.ErrNotFound
	}
	return nil
}

// =============================================================================
// VOUCHER REPOSITORY
// =============================================================================

type voucherRepo struct {
	s *Store
	q querier
}

func (r *voucherRepo) FindByID(ctx context.Context, id string) (*pos.Voucher, error) {
	vs, err := r.query(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, pos.ErrNotFound
	}
	return vs[0], nil
}

func (r *voucherRepo) FindByCustomer(ctx context.Context, customerID string) ([]*pos.Voucher, error) {
	return r.query(ctx, `WHERE customer_id = ?`, customerID)
}

func (r *voucherRepo) query(ctx context.Context, where string, args ...any) ([]*pos.Voucher, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, voucher_type, number, COALESCE(customer_id, ''), amount, currency,
		       voucher_date, cancelled, COALESCE(location, ''), COALESCE(notes, ''), created_at
		FROM vouchers `+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers: %w", err)
	}
	defer rows.Close()

	var vs []*pos.Voucher
	for rows.Next() {
		v := &pos.Voucher{}
		var date, createdAt, amount string
		var cancelled int
		if err := rows.Scan(&v.ID, (*string)(&v.Type), &v.Number, &v.CustomerID,
			&amount, (*string)(&v.Currency), &date, &cancelled, &v.Location,
			&v.Notes, &createdAt); err != nil {
			return nil, err
		}
		v.Date, _ = time.Parse(time.RFC3339Nano, date)
		v.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		v.Cancelled = cancelled != 0
		if v.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

func (r *voucherRepo) Save(ctx context.Context, v *pos.Voucher) error {
	cancelled := 0
	if v.Cancelled {
		cancelled = 1
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO vouchers (id, voucher_type, number, customer_id, amount, currency,
		                      voucher_date, cancelled, location, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET cancelled = excluded.cancelled`,
		v.ID, string(v.Type), v.Number, nullString(v.CustomerID),
		v.Amount.String(), string(v.Currency),
		fmtTime(v.Date), cancelled, v.Location, v.Notes,
		fmtTime(v.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save voucher: %w", err)
	}
	return nil
}

// NextNumber reserves the next sequential number for the type using a
// single upsert-returning statement.
func (r *voucherRepo) NextNumber(ctx context.Context, t pos.VoucherType) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO voucher_counters (voucher_type, next) VALUES (?, 1)
		ON CONFLICT(voucher_type) DO UPDATE SET next = next + 1
		RETURNING next`, string(t)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve voucher number: %w", err)
	}
	return n, nil
}

// =============================================================================
// RETURN REPOSITORY
// =============================================================================

type returnRepo struct {
	s *Store
	q querier
}

func (r *returnRepo) FindByID(ctx context.Context, id string) (*pos.SaleReturn, error) {
	rets, err := r.query(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rets) == 0 {
		return nil, pos.ErrNotFound
	}
	return rets[0], nil
}

func (r *returnRepo) FindByCustomer(ctx context.Context, customerID string) ([]*pos.SaleReturn, error) {
	return r.query(ctx, `WHERE customer_id = ?`, customerID)
}

func (r *returnRepo) FindBySale(ctx context.Context, saleID string) ([]*pos.SaleReturn, error) {
	return r.query(ctx, `WHERE sale_id = ?`, saleID)
}

func (r *returnRepo) query(ctx context.Context, where string, args ...any) ([]*pos.SaleReturn, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, sale_id, customer_id, return_date, currency, total_amount,
		       status, COALESCE(reason, ''), created_at
		FROM sale_returns `+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query returns: %w", err)
	}
	defer rows.Close()

	var rets []*pos.SaleReturn
	for rows.Next() {
		ret := &pos.SaleReturn{}
		var date, createdAt, amount, status string
		if err := rows.Scan(&ret.ID, &ret.SaleID, &ret.CustomerID, &date,
			(*string)(&ret.Currency), &amount, &status, &ret.Reason, &createdAt); err != nil {
			return nil, err
		}
		ret.Date, _ = time.Parse(time.RFC3339Nano, date)
		ret.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		ret.Status = pos.ReturnStatus(status)
		if ret.TotalAmount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		rets = append(rets, ret)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, ret := range rets {
		if err := r.loadItems(ctx, ret); err != nil {
			return nil, err
		}
	}
	return rets, nil
}

func (r *returnRepo) loadItems(ctx context.Context, ret *pos.SaleReturn) error {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, product_id, quantity, condition
		 FROM sale_return_items WHERE return_id = ? ORDER BY rowid ASC`, ret.ID)
	if err != nil {
		return fmt.Errorf("failed to query return items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it pos.ReturnItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, (*string)(&it.Condition)); err != nil {
			return err
		}
		ret.Items = append(ret.Items, it)
	}
	return rows.Err()
}

func (r *returnRepo) Save(ctx context.Context, ret *pos.SaleReturn) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sale_returns (id, sale_id, customer_id, return_date, currency,
		                          total_amount, status, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET status = excluded.status`,
		ret.ID, ret.SaleID, ret.CustomerID,
		fmtTime(ret.Date), string(ret.Currency),
		ret.TotalAmount.String(), string(ret.Status), ret.Reason,
		fmtTime(ret.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save return: %w", err)
	}
	for _, it := range ret.Items {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO sale_return_items (id, return_id, product_id, quantity, condition)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
			it.ID, ret.ID, it.ProductID, it.Quantity, string(it.Condition))
		if err != nil {
			return fmt.Errorf("failed to save return item: %w", err)
		}
	}
	return nil
}

func (r *returnRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM sale_returns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete return: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pos.ErrNotFound
	}
	return nil
}

// =============================================================================
// INVENTORY (pos.Inventory)
// =============================================================================

// SetStock seeds the units on hand for a product.
func (s *Store) SetStock(ctx context.Context, productID string, qty int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (product_id, stock) VALUES (?, ?)
		ON CONFLICT(product_id) DO UPDATE SET stock = excluded.stock`,
		productID, qty)
	return err
}

// Stock returns the units on hand for a product.
func (s *Store) Stock(ctx context.Context, productID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT stock FROM inventory WHERE product_id = ?), 0)`,
		productID).Scan(&n)
	return n, err
}

func (s *Store) IncreaseStock(ctx context.Context, productID string, qty int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (product_id, stock) VALUES (?, ?)
		ON CONFLICT(product_id) DO UPDATE SET stock = stock + excluded.stock`,
		productID, qty)
	if err != nil {
		return fmt.Errorf("failed to increase stock: %w", err)
	}
	return nil
}

// DecreaseStock decrements stock, failing when fewer units are on hand
// than requested. The guard is in the statement itself, so concurrent
// decrements cannot oversell.
func (s *Store) DecreaseStock(ctx context.Context, productID string, qty int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory SET stock = stock - ?
		WHERE product_id = ? AND stock >= ?`,
		qty, productID, qty)
	if err != nil {
		return fmt.Errorf("failed to decrease stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		available, aerr := s.Stock(ctx, productID)
		if aerr != nil {
			available = 0
		}
		return &pos.InsufficientStockError{ProductID: productID, Requested: qty, Available: available}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// timeLayout is RFC3339 with fixed-width nanoseconds. RFC3339Nano trims
// trailing zeros, and "..05Z" sorted after "..05.1Z" lexicographically,
// breaking ORDER BY created_at ties. Reads still parse with RFC3339Nano,
// which accepts both forms.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pos-journal/internal/core/analytics"
	"github.com/rl1809/pos-journal/internal/core/domain"
	"github.com/rl1809/pos-journal/internal/core/inventory"
	"github.com/rl1809/pos-journal/internal/logger"
	"github.com/rl1809/pos-journal/internal/metrics"
	"github.com/rl1809/pos-journal/internal/port"
)

const (
	DefaultSaveTimeout = 5 * time.Second

	rejectInvalidQuantity   = "invalid_quantity"
	rejectUnknownItem       = "unknown_item"
	rejectInsufficientStock = "insufficient_stock"
	rejectEmptyCart         = "empty_cart"
)

// ProductView is a catalog item joined with stock and cart state.
type ProductView struct {
	domain.CatalogItem
	Remaining  int  `json:"remaining"`
	InCart     int  `json:"inCart"`
	CanAdd     int  `json:"canAdd"`
	OutOfStock bool `json:"outOfStock"`
}

type Option func(*POSService)

func WithClock(now func() time.Time) Option {
	return func(s *POSService) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *POSService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(s *POSService) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m *metrics.POSMetrics) Option {
	return func(s *POSService) { s.metrics = m }
}

func WithSaveTimeout(d time.Duration) Option {
	return func(s *POSService) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

// POSService owns the cart and the ledger. Every mutation is written to the
// store before the call returns.
type POSService struct {
	mu sync.Mutex

	catalog *domain.Catalog
	store   port.StateRepository
	log     *logger.Logger
	metrics *metrics.POSMetrics

	cart   *domain.Cart
	ledger *domain.Ledger

	now         func() time.Time
	loc         *time.Location
	saveTimeout time.Duration
}

func NewPOSService(catalog *domain.Catalog, store port.StateRepository, opts ...Option) *POSService {
	s := &POSService{
		catalog:     catalog,
		store:       store,
		log:         logger.Nop(),
		cart:        domain.NewCart(nil),
		ledger:      domain.NewLedger(nil),
		now:         time.Now,
		loc:         time.Local,
		saveTimeout: DefaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the stored one. A failed or
// malformed load leaves an empty journal and returns a *PersistenceError.
func (s *POSService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	s.cart = domain.NewCart(state.Cart)
	s.ledger = domain.NewLedger(state.Sales)

	if err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "state load failed, starting with an empty journal")
		s.metrics.IncPersistenceFailure("load")
		return &PersistenceError{Op: "load", Err: err}
	}

	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"cart_lines": s.cart.Len(),
		"sales":      s.ledger.Len(),
	}), "journal loaded")
	return nil
}

// Save writes the current state.
func (s *POSService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, "save")
}

func (s *POSService) persistLocked(ctx context.Context, op string) error {
	state := domain.State{Cart: s.cart.Lines(), Sales: s.ledger.Sales()}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.Save(saveCtx, state)
	s.metrics.ObserveSave(time.Since(start))

	if err != nil {
		s.log.Error(s.log.WithField(ctx, "op", op), "failed to persist state", err)
		s.metrics.IncPersistenceFailure(op)
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

func (s *POSService) AddToCart(ctx context.Context, itemName string, quantity int) (domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.metrics.IncRejection(rejectInvalidQuantity)
		return domain.CartLine{}, invalid(ErrInvalidQuantity, "quantity must be greater than zero, got %d", quantity)
	}

	item, ok := s.catalog.Lookup(itemName)
	if !ok {
		s.metrics.IncRejection(rejectUnknownItem)
		return domain.CartLine{}, invalid(ErrUnknownItem, "unknown item %q", itemName)
	}

	remaining := inventory.Remaining([]domain.CatalogItem{item}, s.ledger.Sales())[item.ItemName]
	inCart := s.cart.Quantity(item.ItemName)
	canAdd := inventory.Available(remaining, inCart)
	if quantity > canAdd {
		s.metrics.IncRejection(rejectInsufficientStock)
		return domain.CartLine{}, invalid(ErrInsufficientStock,
			"can only add %d more (%d already added, %d available)", canAdd, inCart, remaining)
	}

	line := s.cart.Add(item, quantity)
	s.log.Debug(s.log.WithFields(ctx, map[string]any{
		"item":     item.ItemName,
		"quantity": quantity,
		"in_cart":  line.Quantity,
	}), "item added to cart")

	return line, s.persistLocked(ctx, "add_to_cart")
}

func (s *POSService) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	return s.persistLocked(ctx, "clear_cart")
}

// Checkout records the cart as a sale. A zero saleDate stamps the sale with
// the current time; any other value is truncated to the start of its
// calendar day in the service location.
func (s *POSService) Checkout(ctx context.Context, saleDate time.Time) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		s.metrics.IncRejection(rejectEmptyCart)
		return domain.Sale{}, invalid(ErrEmptyCart, "cart is empty")
	}

	id, err := domain.NewSaleID()
	if err != nil {
		return domain.Sale{}, err
	}

	sale := domain.NewSale(id, s.cart.Lines(), s.saleTimestamp(saleDate))
	s.ledger.Append(sale)
	s.cart.Clear()
	s.metrics.ObserveSale(sale.Total)

	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"sale_id": sale.ID.String(),
		"total":   sale.Total.StringFixed(2),
		"items":   sale.ItemCount(),
	}), "sale recorded")

	return sale, s.persistLocked(ctx, "checkout")
}

func (s *POSService) saleTimestamp(saleDate time.Time) time.Time {
	if saleDate.IsZero() {
		return s.now().In(s.loc)
	}
	y, m, d := saleDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// DeleteTransaction removes the sale with id. An unknown id is not an
// error; the state is written either way.
func (s *POSService) DeleteTransaction(ctx context.Context, id domain.SaleID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.ledger.Remove(id)
	if removed {
		s.metrics.IncSaleDeleted()
		s.log.Info(s.log.WithField(ctx, "sale_id", id.String()), "sale deleted")
	}

	return removed, s.persistLocked(ctx, "delete_transaction")
}

func (s *POSService) Cart() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

func (s *POSService) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *POSService) Sales() []domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Sales()
}

func (s *POSService) Sale(id domain.SaleID) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.ledger.Find(id)
	if !ok {
		return domain.Sale{}, fmt.Errorf("sale %s: %w", id, ErrSaleNotFound)
	}
	return sale, nil
}

// Remaining resolves stock for every catalog item from the ledger alone.
func (s *POSService) Remaining() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return inventory.Remaining(s.catalog.Items(), s.ledger.Sales())
}

// Products lists the catalog, optionally restricted to categories, in
// catalog order.
func (s *POSService) Products(categories ...string) []ProductView {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c != "" {
			wanted[c] = true
		}
	}

	items := s.catalog.Items()
	remaining := inventory.Remaining(items, s.ledger.Sales())

	views := make([]ProductView, 0, len(items))
	for _, item := range items {
		if len(wanted) > 0 && !wanted[item.Category] {
			continue
		}
		left := remaining[item.ItemName]
		inCart := s.cart.Quantity(item.ItemName)
		views = append(views, ProductView{
			CatalogItem: item,
			Remaining:   left,
			InCart:      inCart,
			CanAdd:      inventory.Available(left, inCart),
			OutOfStock:  left == 0,
		})
	}
	return views
}

func (s *POSService) Categories() []string {
	return s.catalog.Categories()
}

func (s *POSService) SalesInPeriod(period analytics.Period) []domain.Sale {
	sales := s.Sales()
	return analytics.FilterByPeriod(sales, period, s.Now())
}

func (s *POSService) Dashboard(period analytics.Period) analytics.Dashboard {
	sales := s.Sales()
	return analytics.Summarize(sales, period, s.Now())
}

func (s *POSService) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *POSService) Location() *time.Location {
	return s.loc
}

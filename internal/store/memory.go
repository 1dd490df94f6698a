package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"orderdesk/internal/domain"
)

// MemStore is the in-memory Storage implementation and the default backend.
// One RWMutex guards all three collections and the order-number counter, so
// every read-modify-write (including the find-customer-or-create step inside
// CreateOrder) is a single critical section.
type MemStore struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
	products  map[string]domain.Product
	orders    map[string]domain.Order
	orderSeq  int
}

// NewMemStore returns an empty store. The order counter starts at 1000 and
// only ever moves forward; numbers are never reused.
func NewMemStore() *MemStore {
	return &MemStore{
		customers: make(map[string]domain.Customer),
		products:  make(map[string]domain.Product),
		orders:    make(map[string]domain.Order),
		orderSeq:  1000,
	}
}

// nextOrderNumber allocates the next human-facing order number. Callers must
// hold the write lock.
func (s *MemStore) nextOrderNumber(now time.Time) string {
	n := s.orderSeq
	s.orderSeq++
	return fmt.Sprintf("ORD-%d-%04d", now.Year(), n)
}

// ---------- customers ----------

func (s *MemStore) Customer(id string) (domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return domain.Customer{}, ErrNotFound
	}
	return c, nil
}

func (s *MemStore) CustomerByEmail(email string) (domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerByEmailLocked(email)
}

// customerByEmailLocked linear-scans the customer map; the store is scoped
// to in-memory dataset sizes where this is fine. Callers hold the lock.
func (s *MemStore) customerByEmailLocked(email string) (domain.Customer, error) {
	for _, c := range s.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return domain.Customer{}, ErrNotFound
}

func (s *MemStore) CreateCustomer(in domain.NewCustomer) (domain.Customer, error) {
	if err := checkNewCustomer(in); err != nil {
		return domain.Customer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.customerByEmailLocked(in.Email); err == nil {
		return domain.Customer{}, ErrEmailTaken
	}
	c := domain.Customer{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: time.Now().UTC(),
	}
	s.customers[c.ID] = c
	return c, nil
}

func (s *MemStore) Customers() ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	return out, nil
}

// ---------- products ----------

func (s *MemStore) Product(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemStore) CreateProduct(in domain.NewProduct) (domain.Product, error) {
	if in.Name == "" {
		return domain.Product{}, &ValidationError{Field: "name", Msg: "required"}
	}
	if in.Price.IsNegative() {
		return domain.Product{}, &ValidationError{Field: "price", Msg: "must not be negative"}
	}
	stock := in.Stock
	if stock == "" {
		stock = "0"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Stock:       stock,
		CreatedAt:   time.Now().UTC(),
	}
	s.products[p.ID] = p
	return p, nil
}

// UpdateProduct merges the patch into the stored product; only supplied
// fields change.
func (s *MemStore) UpdateProduct(id string, patch domain.ProductPatch) (domain.Product, error) {
	if patch.Price != nil && patch.Price.IsNegative() {
		return domain.Product{}, &ValidationError{Field: "price", Msg: "must not be negative"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	s.products[id] = p
	return p, nil
}

func (s *MemStore) DeleteProduct(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.products[id]
	delete(s.products, id)
	return ok, nil
}

func (s *MemStore) Products() ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

// ---------- orders ----------

func (s *MemStore) Order(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	return o, nil
}

func (s *MemStore) OrderByNumber(number string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return domain.Order{}, ErrNotFound
}

// CreateOrder resolves the customer by email, creating one if absent, then
// allocates the order number and inserts, all under the write lock. Two
// concurrent orders from the same email end up on one customer record.
func (s *MemStore) CreateOrder(in domain.NewOrder) (domain.Order, error) {
	if err := checkNewOrder(in); err != nil {
		return domain.Order{}, err
	}
	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cust, err := s.customerByEmailLocked(in.CustomerEmail)
	if err != nil {
		cust = domain.Customer{
			ID:        uuid.NewString(),
			Name:      in.CustomerName,
			Email:     in.CustomerEmail,
			CreatedAt: time.Now().UTC(),
		}
		s.customers[cust.ID] = cust
	}

	now := time.Now().UTC()
	o := domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   s.nextOrderNumber(now),
		CustomerID:    cust.ID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Status:        status,
		TotalAmount:   in.TotalAmount,
		Items:         append([]domain.OrderItem(nil), in.Items...),
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.orders[o.ID] = o
	return o, nil
}

func (s *MemStore) UpdateOrderStatus(id, status string) (domain.Order, error) {
	if !domain.ValidStatus(status) {
		return domain.Order{}, &ValidationError{Field: "status", Msg: "unknown status " + status}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	s.orders[id] = o
	return o, nil
}

func (s *MemStore) UpdateOrderInvoiceURL(id, url string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	o.InvoiceURL = url
	o.UpdatedAt = time.Now().UTC()
	s.orders[id] = o
	return o, nil
}

func (s *MemStore) Orders() ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

package services

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
	"orderdesk/internal/store"
)

// OrderService is the order-side Query Engine plus the thin write path into
// the store. All queries read a snapshot of the order collection and never
// mutate state.
type OrderService struct {
	Store store.Storage
}

func NewOrderService(st store.Storage) *OrderService {
	return &OrderService{Store: st}
}

func (s *OrderService) Create(in domain.NewOrder) (domain.Order, error) {
	return s.Store.CreateOrder(in)
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	return s.Store.Order(id)
}

func (s *OrderService) GetByNumber(number string) (domain.Order, error) {
	return s.Store.OrderByNumber(number)
}

func (s *OrderService) UpdateStatus(id, status string) (domain.Order, error) {
	return s.Store.UpdateOrderStatus(id, status)
}

func (s *OrderService) AttachInvoice(id, url string) (domain.Order, error) {
	return s.Store.UpdateOrderInvoiceURL(id, url)
}

const dateLayout = "2006-01-02"

// Search applies the conjunctive filters, sorts, and paginates. The returned
// total is the post-filter, pre-pagination match count; a page past the end
// gives an empty slice, not an error.
func (s *OrderService) Search(p domain.OrderSearch) (domain.OrderPage, error) {
	orders, err := s.Store.Orders()
	if err != nil {
		return domain.OrderPage{}, err
	}

	if q := strings.ToLower(strings.TrimSpace(p.Search)); q != "" {
		orders = filter(orders, func(o domain.Order) bool {
			return strings.Contains(strings.ToLower(o.OrderNumber), q) ||
				strings.Contains(strings.ToLower(o.CustomerName), q) ||
				strings.Contains(strings.ToLower(o.CustomerEmail), q)
		})
	}
	if p.Status != "" {
		orders = filter(orders, func(o domain.Order) bool { return o.Status == p.Status })
	}
	if p.DateFrom != "" {
		from, err := time.Parse(dateLayout, p.DateFrom)
		if err != nil {
			return domain.OrderPage{}, &store.ValidationError{Field: "dateFrom", Msg: "want YYYY-MM-DD"}
		}
		orders = filter(orders, func(o domain.Order) bool { return !o.CreatedAt.Before(from) })
	}
	if p.DateTo != "" {
		to, err := time.Parse(dateLayout, p.DateTo)
		if err != nil {
			return domain.OrderPage{}, &store.ValidationError{Field: "dateTo", Msg: "want YYYY-MM-DD"}
		}
		// Inclusive calendar date: anything before the following midnight.
		end := to.AddDate(0, 0, 1)
		orders = filter(orders, func(o domain.Order) bool { return o.CreatedAt.Before(end) })
	}

	sortOrders(orders, p.SortBy, p.SortOrder)

	total := len(orders)
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	if offset >= total {
		return domain.OrderPage{Orders: []domain.Order{}, Total: total}, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return domain.OrderPage{Orders: orders[offset:end], Total: total}, nil
}

// All returns the full unpaginated order list, newest first. The export
// collaborator consumes this.
func (s *OrderService) All() ([]domain.Order, error) {
	orders, err := s.Store.Orders()
	if err != nil {
		return nil, err
	}
	sortOrders(orders, "createdAt", "desc")
	return orders, nil
}

// ByCustomer returns every order for the customer, newest first.
func (s *OrderService) ByCustomer(customerID string) ([]domain.Order, error) {
	orders, err := s.Store.Orders()
	if err != nil {
		return nil, err
	}
	orders = filter(orders, func(o domain.Order) bool { return o.CustomerID == customerID })
	sortOrders(orders, "createdAt", "desc")
	return orders, nil
}

// Stats aggregates the dashboard numbers over all orders. Revenue sums with
// decimal arithmetic; no floats touch money.
func (s *OrderService) Stats() (domain.OrderStats, error) {
	orders, err := s.Store.Orders()
	if err != nil {
		return domain.OrderStats{}, err
	}

	revenue := decimal.Zero
	active := 0
	for _, o := range orders {
		revenue = revenue.Add(o.TotalAmount)
		switch o.Status {
		case domain.StatusPending, domain.StatusProcessing, domain.StatusShipped:
			active++
		}
	}

	sortOrders(orders, "createdAt", "desc")
	recent := orders
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return domain.OrderStats{
		TotalOrders:  len(orders),
		TotalRevenue: revenue,
		ActiveOrders: active,
		RecentOrders: recent,
	}, nil
}

func filter(orders []domain.Order, keep func(domain.Order) bool) []domain.Order {
	out := orders[:0:0]
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// sortOrders sorts in place by the requested key and direction. Ties fall
// back to ascending order id, so results are deterministic for equal keys
// whatever the direction.
func sortOrders(orders []domain.Order, sortBy, sortOrder string) {
	desc := sortOrder != "asc" // desc is the default

	cmp := func(a, b domain.Order) int {
		switch sortBy {
		case "totalAmount":
			return a.TotalAmount.Cmp(b.TotalAmount)
		case "customerName":
			return strings.Compare(strings.ToLower(a.CustomerName), strings.ToLower(b.CustomerName))
		default: // createdAt
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		c := cmp(orders[i], orders[j])
		if c == 0 {
			return orders[i].ID < orders[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

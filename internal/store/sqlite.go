package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"orderdesk/internal/domain"
)

// SQLStore is the sqlite-backed Storage implementation. The Query Engine
// contract is unchanged: list calls return full snapshots and all filtering
// stays in the services layer, so switching backends never changes results.
type SQLStore struct {
	db *sqlx.DB

	// Guards order creation (customer resolution + counter + insert) the
	// same way the in-memory store's write lock does.
	mu       sync.Mutex
	orderSeq int
}

// OpenSQL opens (or creates) the sqlite database at dsn and ensures the
// schema exists. The order counter resumes past rows already present.
func OpenSQL(dsn string) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		return nil, err
	}
	return &SQLStore{db: db, orderSeq: 1000 + n}, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS customers(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  stock TEXT NOT NULL DEFAULT '0',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL REFERENCES customers(id),
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  status TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  items_json TEXT NOT NULL,
  invoice_url TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
`
	_, err := db.Exec(schema)
	return err
}

const timeLayout = time.RFC3339Nano

// ---------- row mapping ----------

type customerRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	Address   string `db:"address"`
	CreatedAt string `db:"created_at"`
}

func (r customerRow) toDomain() domain.Customer {
	return domain.Customer{
		ID: r.ID, Name: r.Name, Email: r.Email,
		Phone: r.Phone, Address: r.Address,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

type productRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Price       string `db:"price"`
	ImageURL    string `db:"image_url"`
	Category    string `db:"category"`
	Stock       string `db:"stock"`
	CreatedAt   string `db:"created_at"`
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID: r.ID, Name: r.Name, Description: r.Description,
		Price: parseDecimal(r.Price), ImageURL: r.ImageURL,
		Category: r.Category, Stock: r.Stock,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

type orderRow struct {
	ID            string `db:"id"`
	OrderNumber   string `db:"order_number"`
	CustomerID    string `db:"customer_id"`
	CustomerName  string `db:"customer_name"`
	CustomerEmail string `db:"customer_email"`
	Status        string `db:"status"`
	TotalAmount   string `db:"total_amount"`
	ItemsJSON     string `db:"items_json"`
	InvoiceURL    string `db:"invoice_url"`
	Notes         string `db:"notes"`
	CreatedAt     string `db:"created_at"`
	UpdatedAt     string `db:"updated_at"`
}

func (r orderRow) toDomain() domain.Order {
	var items []domain.OrderItem
	_ = json.Unmarshal([]byte(r.ItemsJSON), &items)
	return domain.Order{
		ID: r.ID, OrderNumber: r.OrderNumber,
		CustomerID: r.CustomerID, CustomerName: r.CustomerName, CustomerEmail: r.CustomerEmail,
		Status: r.Status, TotalAmount: parseDecimal(r.TotalAmount),
		Items: items, InvoiceURL: r.InvoiceURL, Notes: r.Notes,
		CreatedAt: parseTime(r.CreatedAt), UpdatedAt: parseTime(r.UpdatedAt),
	}
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func parseDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ---------- customers ----------

func (s *SQLStore) Customer(id string) (domain.Customer, error) {
	var r customerRow
	err := s.db.Get(&r, `SELECT id,name,email,phone,address,created_at FROM customers WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, ErrNotFound
	}
	if err != nil {
		return domain.Customer{}, err
	}
	return r.toDomain(), nil
}

func (s *SQLStore) CustomerByEmail(email string) (domain.Customer, error) {
	var r customerRow
	err := s.db.Get(&r, `SELECT id,name,email,phone,address,created_at FROM customers WHERE email=?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, ErrNotFound
	}
	if err != nil {
		return domain.Customer{}, err
	}
	return r.toDomain(), nil
}

func (s *SQLStore) CreateCustomer(in domain.NewCustomer) (domain.Customer, error) {
	if err := checkNewCustomer(in); err != nil {
		return domain.Customer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.CustomerByEmail(in.Email); err == nil {
		return domain.Customer{}, ErrEmailTaken
	}
	return s.insertCustomer(in)
}

// insertCustomer writes the row; callers hold s.mu and have checked the
// email is free.
func (s *SQLStore) insertCustomer(in domain.NewCustomer) (domain.Customer, error) {
	c := domain.Customer{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO customers(id,name,email,phone,address,created_at) VALUES(?,?,?,?,?,?)`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt.Format(timeLayout))
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *SQLStore) Customers() ([]domain.Customer, error) {
	var rows []customerRow
	if err := s.db.Select(&rows, `SELECT id,name,email,phone,address,created_at FROM customers`); err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ---------- products ----------

const productCols = `id,name,description,price,image_url,category,stock,created_at`

func (s *SQLStore) Product(id string) (domain.Product, error) {
	var r productRow
	err := s.db.Get(&r, `SELECT `+productCols+` FROM products WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return r.toDomain(), nil
}

func (s *SQLStore) CreateProduct(in domain.NewProduct) (domain.Product, error) {
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
	_, err := s.db.Exec(
		`INSERT INTO products(`+productCols+`) VALUES(?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Description, p.Price.String(), p.ImageURL, p.Category, p.Stock,
		p.CreatedAt.Format(timeLayout))
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *SQLStore) UpdateProduct(id string, patch domain.ProductPatch) (domain.Product, error) {
	if patch.Price != nil && patch.Price.IsNegative() {
		return domain.Product{}, &ValidationError{Field: "price", Msg: "must not be negative"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.Product(id)
	if err != nil {
		return domain.Product{}, err
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
	_, err = s.db.Exec(
		`UPDATE products SET name=?, description=?, price=?, image_url=?, category=?, stock=? WHERE id=?`,
		p.Name, p.Description, p.Price.String(), p.ImageURL, p.Category, p.Stock, id)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *SQLStore) DeleteProduct(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *SQLStore) Products() ([]domain.Product, error) {
	var rows []productRow
	if err := s.db.Select(&rows, `SELECT `+productCols+` FROM products`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ---------- orders ----------

const orderCols = `id,order_number,customer_id,customer_name,customer_email,status,total_amount,items_json,invoice_url,notes,created_at,updated_at`

func (s *SQLStore) getOrder(where string, arg any) (domain.Order, error) {
	var r orderRow
	err := s.db.Get(&r, `SELECT `+orderCols+` FROM orders WHERE `+where+`=?`, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return r.toDomain(), nil
}

func (s *SQLStore) Order(id string) (domain.Order, error) {
	return s.getOrder("id", id)
}

func (s *SQLStore) OrderByNumber(number string) (domain.Order, error) {
	return s.getOrder("order_number", number)
}

func (s *SQLStore) CreateOrder(in domain.NewOrder) (domain.Order, error) {
	if err := checkNewOrder(in); err != nil {
		return domain.Order{}, err
	}
	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cust, err := s.CustomerByEmail(in.CustomerEmail)
	if errors.Is(err, ErrNotFound) {
		cust, err = s.insertCustomer(domain.NewCustomer{Name: in.CustomerName, Email: in.CustomerEmail})
	}
	if err != nil {
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	number := fmt.Sprintf("ORD-%d-%04d", now.Year(), s.orderSeq)
	s.orderSeq++

	items := append([]domain.OrderItem(nil), in.Items...)
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   number,
		CustomerID:    cust.ID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Status:        status,
		TotalAmount:   in.TotalAmount,
		Items:         items,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err = s.db.Exec(
		`INSERT INTO orders(`+orderCols+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.OrderNumber, o.CustomerID, o.CustomerName, o.CustomerEmail,
		o.Status, o.TotalAmount.String(), string(itemsJSON), o.InvoiceURL, o.Notes,
		o.CreatedAt.Format(timeLayout), o.UpdatedAt.Format(timeLayout))
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *SQLStore) UpdateOrderStatus(id, status string) (domain.Order, error) {
	if !domain.ValidStatus(status) {
		return domain.Order{}, &ValidationError{Field: "status", Msg: "unknown status " + status}
	}
	now := time.Now().UTC()
	res, err := s.db.Exec(`UPDATE orders SET status=?, updated_at=? WHERE id=?`,
		status, now.Format(timeLayout), id)
	if err != nil {
		return domain.Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Order{}, ErrNotFound
	}
	return s.Order(id)
}

func (s *SQLStore) UpdateOrderInvoiceURL(id, url string) (domain.Order, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`UPDATE orders SET invoice_url=?, updated_at=? WHERE id=?`,
		url, now.Format(timeLayout), id)
	if err != nil {
		return domain.Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Order{}, ErrNotFound
	}
	return s.Order(id)
}

func (s *SQLStore) Orders() ([]domain.Order, error) {
	var rows []orderRow
	if err := s.db.Select(&rows, `SELECT `+orderCols+` FROM orders`); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

package store

import (
	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
)

// SeedDemo inserts the demo catalog into an empty store. Safe to run every
// start; it is a no-op once any product exists.
func SeedDemo(s Storage) error {
	existing, err := s.Products()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	demo := []domain.NewProduct{
		{
			Name:        "Premium Wireless Headphones",
			Description: "High-quality wireless headphones with noise cancellation",
			Price:       decimal.RequireFromString("299.99"),
			Category:    "Electronics",
			Stock:       "50",
		},
		{
			Name:        "Gaming Laptop Pro",
			Description: "High-performance gaming laptop with RTX graphics",
			Price:       decimal.RequireFromString("1299.00"),
			Category:    "Computers",
			Stock:       "25",
		},
		{
			Name:        "Smartphone 15 Pro",
			Description: "Latest smartphone with advanced camera system",
			Price:       decimal.RequireFromString("999.00"),
			Category:    "Mobile",
			Stock:       "75",
		},
	}
	for _, p := range demo {
		if _, err := s.CreateProduct(p); err != nil {
			return err
		}
	}
	return nil
}

package services

import (
	"strings"

	"orderdesk/internal/domain"
	"orderdesk/internal/store"
)

// CatalogService wraps product CRUD and free-text product search.
type CatalogService struct {
	Store store.Storage
}

func NewCatalogService(st store.Storage) *CatalogService {
	return &CatalogService{Store: st}
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.Store.Product(id)
}

func (s *CatalogService) Create(in domain.NewProduct) (domain.Product, error) {
	return s.Store.CreateProduct(in)
}

func (s *CatalogService) Update(id string, patch domain.ProductPatch) (domain.Product, error) {
	return s.Store.UpdateProduct(id, patch)
}

func (s *CatalogService) Delete(id string) (bool, error) {
	return s.Store.DeleteProduct(id)
}

// Search returns all products for an empty query; otherwise a
// case-insensitive substring match against name, description or category.
func (s *CatalogService) Search(query string) ([]domain.Product, error) {
	products, err := s.Store.Products()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products, nil
	}
	out := products[:0:0]
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

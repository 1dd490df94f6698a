package services_test

import (
	"testing"

	"orderdesk/internal/domain"
	"orderdesk/internal/services"
	"orderdesk/internal/store"
)

func seedCatalog(t *testing.T) *services.CatalogService {
	t.Helper()
	svc := services.NewCatalogService(store.NewMemStore())
	products := []domain.NewProduct{
		{Name: "Premium Wireless Headphones", Description: "noise cancellation", Category: "Electronics", Price: dec(t, "299.99"), Stock: "50"},
		{Name: "Gaming Laptop Pro", Description: "RTX graphics", Category: "Computers", Price: dec(t, "1299.00"), Stock: "25"},
		{Name: "Smartphone 15 Pro", Description: "advanced camera", Category: "Mobile", Price: dec(t, "999.00"), Stock: "75"},
	}
	for _, p := range products {
		if _, err := svc.Create(p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return svc
}

func TestCatalogSearch(t *testing.T) {
	svc := seedCatalog(t)

	cases := []struct {
		q    string
		want int
	}{
		{"", 3},            // empty query returns everything
		{"   ", 3},         // whitespace too
		{"pro", 2},         // name substring, case-insensitive
		{"LAPTOP", 1},      // upper-case query
		{"camera", 1},      // description match
		{"electronics", 1}, // category match
		{"widget", 0},
	}
	for _, tc := range cases {
		got, err := svc.Search(tc.q)
		if err != nil {
			t.Fatalf("search %q: %v", tc.q, err)
		}
		if len(got) != tc.want {
			t.Fatalf("search %q: want %d, got %d", tc.q, tc.want, len(got))
		}
	}
}

func TestCatalogUpdateDelete(t *testing.T) {
	svc := seedCatalog(t)
	all, _ := svc.Search("")
	id := all[0].ID

	name := "Renamed"
	p, err := svc.Update(id, domain.ProductPatch{Name: &name})
	if err != nil || p.Name != "Renamed" {
		t.Fatalf("update: %v %+v", err, p)
	}

	existed, err := svc.Delete(id)
	if err != nil || !existed {
		t.Fatalf("delete: %t %v", existed, err)
	}
	if _, err := svc.Get(id); err == nil {
		t.Fatal("want error after delete")
	}
	rest, _ := svc.Search("")
	if len(rest) != 2 {
		t.Fatalf("want 2 products left, got %d", len(rest))
	}
}

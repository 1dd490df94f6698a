package handlers

import (
	"orderdesk/internal/invoice"
	"orderdesk/internal/services"
	"orderdesk/internal/store"
)

type Deps struct {
	OrderHandler    *OrderHandler
	ProductHandler  *ProductHandler
	CustomerHandler *CustomerHandler
	InvoiceHandler  *InvoiceHandler
}

func NewDeps(st store.Storage) *Deps {
	orderSvc := services.NewOrderService(st)
	catalogSvc := services.NewCatalogService(st)
	invoices := invoice.NewCache()

	return &Deps{
		OrderHandler:    &OrderHandler{Orders: orderSvc, Invoices: invoices},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		CustomerHandler: &CustomerHandler{Store: st, Orders: orderSvc},
		InvoiceHandler:  &InvoiceHandler{Orders: orderSvc, Cache: invoices},
	}
}

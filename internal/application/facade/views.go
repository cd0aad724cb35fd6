package facade

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/salesapp/client/internal/domain/catalog"
	"github.com/salesapp/client/internal/domain/partner"
	"github.com/salesapp/client/internal/domain/shared"
	"github.com/salesapp/client/internal/domain/trade"
)

// ProductSort selects the ordering of product listings
type ProductSort string

const (
	SortNameAsc   ProductSort = "name_asc"
	SortNameDesc  ProductSort = "name_desc"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortNewest    ProductSort = "newest"
)

// Products returns every cached product, including inactive ones
func (f *Facade) Products() []catalog.Product {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]catalog.Product(nil), f.products...)
}

// ActiveProducts returns cached products that are not soft-deleted
func (f *Facade) ActiveProducts() []catalog.Product {
	f.mu.RLock()
	defer f.mu.RUnlock()

	active := make([]catalog.Product, 0, len(f.products))
	for _, p := range f.products {
		if p.Active() {
			active = append(active, p)
		}
	}
	return active
}

// FilteredSortedProducts returns active products filtered by free-text query
// and category, in the requested order. Name sorting is locale aware.
func (f *Facade) FilteredSortedProducts(query, categoryID string, sortBy ProductSort) []catalog.Product {
	products := f.ActiveProducts()

	filtered := products[:0]
	for _, p := range products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if !p.Matches(query) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch sortBy {
	case SortNameDesc:
		collator := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(filtered, func(i, j int) bool {
			return collator.CompareString(filtered[i].Name, filtered[j].Name) > 0
		})
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].BasePrice.LessThan(filtered[j].BasePrice)
		})
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[j].BasePrice.LessThan(filtered[i].BasePrice)
		})
	case SortNewest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	default: // SortNameAsc
		collator := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(filtered, func(i, j int) bool {
			return collator.CompareString(filtered[i].Name, filtered[j].Name) < 0
		})
	}
	return filtered
}

// SearchProducts returns active products matching a free-text query, name
// ascending
func (f *Facade) SearchProducts(query string) []catalog.Product {
	return f.FilteredSortedProducts(query, "", SortNameAsc)
}

// ProductsByCategory returns active products in one category, name ascending
func (f *Facade) ProductsByCategory(categoryID string) []catalog.Product {
	return f.FilteredSortedProducts("", categoryID, SortNameAsc)
}

// ProductByID looks up a cached product
func (f *Facade) ProductByID(id string) (catalog.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, shared.ErrNotFound
}

// Categories returns every cached category
func (f *Facade) Categories() []catalog.Category {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]catalog.Category(nil), f.categories...)
}

// ActiveCategories returns cached categories that are not soft-deleted
func (f *Facade) ActiveCategories() []catalog.Category {
	f.mu.RLock()
	defer f.mu.RUnlock()

	active := make([]catalog.Category, 0, len(f.categories))
	for _, c := range f.categories {
		if c.Active() {
			active = append(active, c)
		}
	}
	return active
}

// CategoryByID looks up a cached category
func (f *Facade) CategoryByID(id string) (catalog.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return catalog.Category{}, shared.ErrNotFound
}

// Customers returns every cached customer
func (f *Facade) Customers() []partner.Customer {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]partner.Customer(nil), f.customers...)
}

// ActiveCustomers returns cached customers that are not soft-deleted
func (f *Facade) ActiveCustomers() []partner.Customer {
	f.mu.RLock()
	defer f.mu.RUnlock()

	active := make([]partner.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		if c.Active() {
			active = append(active, c)
		}
	}
	return active
}

// SearchCustomers returns active customers matching a free-text query
func (f *Facade) SearchCustomers(query string) []partner.Customer {
	customers := f.ActiveCustomers()
	matched := customers[:0]
	for _, c := range customers {
		if c.Matches(query) {
			matched = append(matched, c)
		}
	}
	return matched
}

// CustomerByID looks up a cached customer
func (f *Facade) CustomerByID(id string) (partner.Customer, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return partner.Customer{}, shared.ErrNotFound
}

// Orders returns all orders, newest first. Queued offline orders are rendered
// in the order shape, carrying their temporary ID and the PENDING-SYNC order
// number, and sort ahead of synced orders from the same moment.
func (f *Facade) Orders() []trade.Order {
	f.mu.RLock()
	defer f.mu.RUnlock()

	orders := make([]trade.Order, 0, len(f.orders)+len(f.pending))
	for _, p := range f.pending {
		orders = append(orders, p.AsOrder())
	}
	orders = append(orders, f.orders...)

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

// OrderByID looks up an order by server ID or temporary ID
func (f *Facade) OrderByID(id string) (trade.Order, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if trade.IsTempID(id) {
		for _, p := range f.pending {
			if p.TempID == id {
				return p.AsOrder(), nil
			}
		}
		return trade.Order{}, shared.ErrNotFound
	}
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return trade.Order{}, shared.ErrNotFound
}

// OrdersBySalesRep returns orders authored by the given sales rep
func (f *Facade) OrdersBySalesRep(salesRepID string) []trade.Order {
	orders := f.Orders()
	matched := orders[:0]
	for _, o := range orders {
		if o.SalesRepID == salesRepID {
			matched = append(matched, o)
		}
	}
	return matched
}

// OrdersByStatus returns orders in the given status
func (f *Facade) OrdersByStatus(status trade.OrderStatus) []trade.Order {
	orders := f.Orders()
	matched := orders[:0]
	for _, o := range orders {
		if o.Status == status {
			matched = append(matched, o)
		}
	}
	return matched
}

// PendingOrders returns the queued offline orders, oldest first
func (f *Facade) PendingOrders() []trade.PendingOrder {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]trade.PendingOrder(nil), f.pending...)
}

// DashboardStats summarizes the cached data for the home screen
type DashboardStats struct {
	TotalOrders      int             `json:"totalOrders"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	OrdersThisMonth  int             `json:"ordersThisMonth"`
	RevenueThisMonth decimal.Decimal `json:"revenueThisMonth"`
	PendingSync      int             `json:"pendingSync"`
	ActiveProducts   int             `json:"activeProducts"`
	ActiveCustomers  int             `json:"activeCustomers"`
}

// Stats computes dashboard statistics from the cached views. Cancelled orders
// do not count toward revenue.
func (f *Facade) Stats() DashboardStats {
	now := f.clock()

	f.mu.RLock()
	defer f.mu.RUnlock()

	stats := DashboardStats{
		TotalOrders: len(f.orders) + len(f.pending),
		PendingSync: len(f.pending),
	}
	sameMonth := func(t time.Time) bool {
		return t.Year() == now.Year() && t.Month() == now.Month()
	}
	for _, o := range f.orders {
		if o.Status == trade.OrderStatusCancelled {
			continue
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
		if sameMonth(o.CreatedAt) {
			stats.OrdersThisMonth++
			stats.RevenueThisMonth = stats.RevenueThisMonth.Add(o.Total)
		}
	}
	for _, p := range f.pending {
		stats.TotalRevenue = stats.TotalRevenue.Add(p.Draft.Total)
		if sameMonth(p.QueuedAt) {
			stats.OrdersThisMonth++
			stats.RevenueThisMonth = stats.RevenueThisMonth.Add(p.Draft.Total)
		}
	}
	for _, p := range f.products {
		if p.Active() {
			stats.ActiveProducts++
		}
	}
	for _, c := range f.customers {
		if c.Active() {
			stats.ActiveCustomers++
		}
	}
	return stats
}

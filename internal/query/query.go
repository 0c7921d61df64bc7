// Package query provides stateless filter and ranking operations over the
// order fact table. Nothing here mutates its input; an empty result is a
// valid success outcome, distinct from an input error.
package query

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"orders-analytics/internal/entity"
)

// DateLayout is the calendar-date format accepted by the range filter.
const DateLayout = "2006-01-02"

// FilterByDateRange returns the fact rows whose purchase timestamp falls
// within [start, end], inclusive on both bounds. Bounds are calendar
// dates; a row purchased at any time of day on the boundary date matches.
func FilterByDateRange(facts []entity.OrderFact, start, end string) ([]entity.OrderFact, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return nil, err
	}

	var out []entity.OrderFact
	for i := range facts {
		t := facts[i].PurchaseTimestamp
		if t == nil {
			continue
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		if day.Before(startDate) || day.After(endDate) {
			continue
		}
		out = append(out, facts[i])
	}
	return out, nil
}

// TopCustomers ranks customers by total order value, descending, and
// returns at most n rows. Ties keep fact-table encounter order.
func TopCustomers(facts []entity.OrderFact, n int) ([]entity.TopCustomerRow, error) {
	if n <= 0 {
		return nil, &InputValidationError{Field: "n", Reason: "must be a positive integer"}
	}

	type agg struct {
		value float64
		items int
	}
	byCustomer := make(map[string]*agg)
	var keys []string

	for i := range facts {
		f := &facts[i]
		key := ""
		if f.CustomerUniqueID != nil {
			key = *f.CustomerUniqueID
		}
		a, ok := byCustomer[key]
		if !ok {
			a = &agg{}
			byCustomer[key] = a
			keys = append(keys, key)
		}
		if f.Price != nil {
			a.value += *f.Price
		}
		if f.ItemQuantity != nil {
			a.items++
		}
	}

	rows := make([]entity.TopCustomerRow, 0, len(keys))
	for _, key := range keys {
		a := byCustomer[key]
		value, _ := decimal.NewFromFloat(a.value).Round(2).Float64()
		rows = append(rows, entity.TopCustomerRow{
			CustomerUniqueID:  key,
			TotalOrdersValue:  value,
			TotalItemsOrdered: a.items,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalOrdersValue > rows[j].TotalOrdersValue
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// FilterByCustomer returns the fact rows for one customer_unique_id.
func FilterByCustomer(facts []entity.OrderFact, customerID string) ([]entity.OrderFact, error) {
	if customerID == "" {
		return nil, &InputValidationError{Field: "customer_id", Reason: "is required"}
	}
	return filterByID(facts, customerID, func(f *entity.OrderFact) *string {
		return f.CustomerUniqueID
	}), nil
}

// FilterBySeller returns the fact rows for one seller_id.
func FilterBySeller(facts []entity.OrderFact, sellerID string) ([]entity.OrderFact, error) {
	if sellerID == "" {
		return nil, &InputValidationError{Field: "seller_id", Reason: "is required"}
	}
	return filterByID(facts, sellerID, func(f *entity.OrderFact) *string {
		return f.SellerID
	}), nil
}

// FilterByProduct returns the fact rows for one product_id.
func FilterByProduct(facts []entity.OrderFact, productID string) ([]entity.OrderFact, error) {
	if productID == "" {
		return nil, &InputValidationError{Field: "product_id", Reason: "is required"}
	}
	return filterByID(facts, productID, func(f *entity.OrderFact) *string {
		return f.ProductID
	}), nil
}

func filterByID(facts []entity.OrderFact, id string, column func(*entity.OrderFact) *string) []entity.OrderFact {
	var out []entity.OrderFact
	for i := range facts {
		if v := column(&facts[i]); v != nil && *v == id {
			out = append(out, facts[i])
		}
	}
	return out
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{Value: value, Layout: DateLayout}
	}
	return t, nil
}

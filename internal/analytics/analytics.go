// Package analytics derives the per-run summary views from the order fact
// table. Every function is a pure grouping/aggregation: the fact table is
// never mutated, and grouping keys keep first-encounter order so ranked
// results tie-break deterministically via stable sorts.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"orders-analytics/internal/entity"
)

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// strDeref folds the null group into the empty string key, mirroring how
// the grouped views treat orders that never matched a seller or product.
func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CustomerSpending groups the fact table by customer_unique_id and sums
// order value, shipping and payments, with first/last order dates.
func CustomerSpending(facts []entity.OrderFact) []entity.CustomerSpendingRow {
	type agg struct {
		price   float64
		freight float64
		payment float64
		orders  int
		first   *time.Time
		last    *time.Time
		city    *string
	}

	byCustomer := make(map[string]*agg)
	var keys []string

	for i := range facts {
		f := &facts[i]
		key := strDeref(f.CustomerUniqueID)
		a, ok := byCustomer[key]
		if !ok {
			a = &agg{city: f.CustomerCity}
			byCustomer[key] = a
			keys = append(keys, key)
		}
		if f.Price != nil {
			a.price += *f.Price
		}
		if f.FreightValue != nil {
			a.freight += *f.FreightValue
		}
		if f.PaymentValue != nil {
			a.payment += *f.PaymentValue
		}
		a.orders++
		if t := f.PurchaseTimestamp; t != nil {
			if a.first == nil || t.Before(*a.first) {
				a.first = t
			}
			if a.last == nil || t.After(*a.last) {
				a.last = t
			}
		}
	}

	rows := make([]entity.CustomerSpendingRow, 0, len(keys))
	for _, key := range keys {
		a := byCustomer[key]
		rows = append(rows, entity.CustomerSpendingRow{
			CustomerUniqueID:  key,
			TotalOrdersValue:  round2(a.price),
			OrderCount:        a.orders,
			TotalShippingCost: round2(a.freight),
			TotalPaymentValue: round2(a.payment),
			LastOrderDate:     a.last,
			FirstOrderDate:    a.first,
			CustomerCity:      a.city,
		})
	}
	return rows
}

// SellerSales groups the fact table by seller_id.
func SellerSales(facts []entity.OrderFact) []entity.SellerSalesRow {
	type agg struct {
		price  float64
		orders int
		sold   int
		city   *string
	}

	bySeller := make(map[string]*agg)
	var keys []string

	for i := range facts {
		f := &facts[i]
		key := strDeref(f.SellerID)
		a, ok := bySeller[key]
		if !ok {
			a = &agg{city: f.SellerCity}
			bySeller[key] = a
			keys = append(keys, key)
		}
		if f.Price != nil {
			a.price += *f.Price
		}
		if f.ItemQuantity != nil {
			a.sold += *f.ItemQuantity
		}
		a.orders++
	}

	rows := make([]entity.SellerSalesRow, 0, len(keys))
	for _, key := range keys {
		a := bySeller[key]
		rows = append(rows, entity.SellerSalesRow{
			SellerID:          key,
			TotalOrdersValue:  round2(a.price),
			TotalOrders:       a.orders,
			TotalProductsSold: a.sold,
			SellerCity:        a.city,
		})
	}
	return rows
}

// ProductSales groups the fact table by product_id, sorted descending by
// total_sold. The category column prefers the English translation and
// falls back to the original-language name when no translation exists.
func ProductSales(facts []entity.OrderFact) []entity.ProductSalesRow {
	type agg struct {
		sold       int
		sales      float64
		priceCount int
		category   *string
	}

	byProduct := make(map[string]*agg)
	var keys []string

	for i := range facts {
		f := &facts[i]
		key := strDeref(f.ProductID)
		a, ok := byProduct[key]
		if !ok {
			category := f.ProductCategoryNameEnglish
			if category == nil {
				category = f.ProductCategoryName
			}
			a = &agg{category: category}
			byProduct[key] = a
			keys = append(keys, key)
		}
		if f.ItemQuantity != nil {
			a.sold += *f.ItemQuantity
		}
		if f.Price != nil {
			a.sales += *f.Price
			a.priceCount++
		}
	}

	rows := make([]entity.ProductSalesRow, 0, len(keys))
	for _, key := range keys {
		a := byProduct[key]
		average := 0.0
		if a.priceCount > 0 {
			average = a.sales / float64(a.priceCount)
		}
		rows = append(rows, entity.ProductSalesRow{
			ProductID:       key,
			TotalSold:       a.sold,
			TotalSales:      round2(a.sales),
			AveragePrice:    round2(average),
			ProductCategory: a.category,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalSold > rows[j].TotalSold
	})
	return rows
}

// SalesSnapshot computes the single-row global KPI summary. "Top" means
// the first row after a stable descending sort on the metric, so ties
// resolve to the group encountered first in the fact table.
func SalesSnapshot(facts []entity.OrderFact) entity.SalesSnapshot {
	type agg struct {
		key   string
		value float64
		count int
	}

	groupSum := func(key func(*entity.OrderFact) string) []agg {
		byKey := make(map[string]int)
		var groups []agg
		for i := range facts {
			f := &facts[i]
			k := key(f)
			idx, ok := byKey[k]
			if !ok {
				idx = len(groups)
				byKey[k] = idx
				groups = append(groups, agg{key: k})
			}
			if f.Price != nil {
				groups[idx].value += *f.Price
			}
			groups[idx].count++
		}
		return groups
	}

	snapshot := entity.SalesSnapshot{}

	sellers := groupSum(func(f *entity.OrderFact) string { return strDeref(f.SellerID) })
	sort.SliceStable(sellers, func(i, j int) bool { return sellers[i].value > sellers[j].value })
	if len(sellers) > 0 {
		snapshot.TopSellerID = sellers[0].key
		snapshot.TopSellerSales = sellers[0].value
	}

	customers := groupSum(func(f *entity.OrderFact) string { return strDeref(f.CustomerUniqueID) })
	sort.SliceStable(customers, func(i, j int) bool { return customers[i].value > customers[j].value })
	if len(customers) > 0 {
		snapshot.TopCustomerID = customers[0].key
		snapshot.TopCustomerSpent = customers[0].value
	}

	products := groupSum(func(f *entity.OrderFact) string { return strDeref(f.ProductID) })
	sort.SliceStable(products, func(i, j int) bool { return products[i].count > products[j].count })
	if len(products) > 0 {
		snapshot.MostSoldProductID = products[0].key
		snapshot.MostSoldProductCount = products[0].count
	}

	var priceSum, freightSum float64
	var priceCount, freightCount int
	for i := range facts {
		if facts[i].Price != nil {
			priceSum += *facts[i].Price
			priceCount++
		}
		if facts[i].FreightValue != nil {
			freightSum += *facts[i].FreightValue
			freightCount++
		}
	}
	if priceCount > 0 {
		snapshot.AvgOrderValue = round2(priceSum / float64(priceCount))
	}
	if freightCount > 0 {
		snapshot.AvgShippingFee = round2(freightSum / float64(freightCount))
	}

	return snapshot
}

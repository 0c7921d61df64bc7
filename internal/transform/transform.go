// Package transform resolves the raw entity tables into the denormalized
// order fact table: one row per order, with item, payment and review data
// aggregated before joining so the one-to-many relations collapse cleanly.
package transform

import (
	"orders-analytics/internal/entity"
)

// itemAgg is the per-order rollup of the item/product join. Product,
// category and seller attribution comes from the first item row seen in
// source order; with multi-item orders this is an accepted approximation,
// not a per-item guarantee.
type itemAgg struct {
	price        float64
	freightValue float64
	productID    string
	categoryName *string
	sellerID     string
	quantity     int
}

type paymentAgg struct {
	installments int
	value        float64
}

type reviewAgg struct {
	sum   int
	count int
}

// BuildOrderFacts produces exactly one OrderFact row per row of the raw
// orders table, in source order. Every join is left-preserving: an order
// with no items, payments or reviews keeps nil in those columns rather
// than zero. Re-running on unchanged inputs yields an identical result.
func BuildOrderFacts(raw *entity.RawTables) []entity.OrderFact {
	customersByID := make(map[string]entity.Customer, len(raw.Customers))
	for _, c := range raw.Customers {
		if _, ok := customersByID[c.CustomerID]; !ok {
			customersByID[c.CustomerID] = c
		}
	}

	productsByID := make(map[string]entity.Product, len(raw.Products))
	for _, p := range raw.Products {
		if _, ok := productsByID[p.ProductID]; !ok {
			productsByID[p.ProductID] = p
		}
	}

	sellersByID := make(map[string]entity.Seller, len(raw.Sellers))
	for _, s := range raw.Sellers {
		if _, ok := sellersByID[s.SellerID]; !ok {
			sellersByID[s.SellerID] = s
		}
	}

	englishByCategory := make(map[string]string, len(raw.Translations))
	for _, t := range raw.Translations {
		if _, ok := englishByCategory[t.CategoryName]; !ok {
			englishByCategory[t.CategoryName] = t.CategoryNameEnglish
		}
	}

	items := make(map[string]*itemAgg, len(raw.Orders))
	for _, item := range raw.OrderItems {
		agg, ok := items[item.OrderID]
		if !ok {
			agg = &itemAgg{
				productID: item.ProductID,
				sellerID:  item.SellerID,
			}
			if product, ok := productsByID[item.ProductID]; ok {
				agg.categoryName = product.CategoryName
			}
			items[item.OrderID] = agg
		}
		agg.price += item.Price
		agg.freightValue += item.FreightValue
		agg.quantity++
	}

	payments := make(map[string]*paymentAgg, len(raw.Orders))
	for _, p := range raw.Payments {
		agg, ok := payments[p.OrderID]
		if !ok {
			agg = &paymentAgg{installments: p.PaymentInstallments}
			payments[p.OrderID] = agg
		}
		agg.value += p.PaymentValue
	}

	reviews := make(map[string]*reviewAgg, len(raw.Orders))
	for _, r := range raw.Reviews {
		agg, ok := reviews[r.OrderID]
		if !ok {
			agg = &reviewAgg{}
			reviews[r.OrderID] = agg
		}
		agg.sum += r.ReviewScore
		agg.count++
	}

	facts := make([]entity.OrderFact, 0, len(raw.Orders))
	for _, order := range raw.Orders {
		fact := entity.OrderFact{
			OrderID:               order.OrderID,
			OrderStatus:           order.OrderStatus,
			PurchaseTimestamp:     order.PurchaseTimestamp,
			ApprovedAt:            order.ApprovedAt,
			DeliveredCarrierDate:  order.DeliveredCarrierDate,
			DeliveredCustomerDate: order.DeliveredCustomerDate,
			EstimatedDeliveryDate: order.EstimatedDeliveryDate,
		}

		if customer, ok := customersByID[order.CustomerID]; ok {
			uniqueID := customer.CustomerUniqueID
			city := customer.CustomerCity
			fact.CustomerUniqueID = &uniqueID
			fact.CustomerCity = &city
		}

		if agg, ok := items[order.OrderID]; ok {
			price := agg.price
			freight := agg.freightValue
			productID := agg.productID
			sellerID := agg.sellerID
			quantity := agg.quantity
			fact.Price = &price
			fact.FreightValue = &freight
			fact.ProductID = &productID
			fact.ProductCategoryName = agg.categoryName
			fact.SellerID = &sellerID
			fact.ItemQuantity = &quantity

			if seller, ok := sellersByID[agg.sellerID]; ok {
				city := seller.SellerCity
				fact.SellerCity = &city
			}
			if agg.categoryName != nil {
				if english, ok := englishByCategory[*agg.categoryName]; ok {
					fact.ProductCategoryNameEnglish = &english
				}
			}
		}

		if agg, ok := payments[order.OrderID]; ok {
			installments := agg.installments
			value := agg.value
			fact.PaymentInstallments = &installments
			fact.PaymentValue = &value
		}

		if agg, ok := reviews[order.OrderID]; ok {
			// Truncating cast: a mean of 4.9 stores as 4.
			score := int(float64(agg.sum) / float64(agg.count))
			fact.ReviewScore = &score
		}

		facts = append(facts, fact)
	}

	return facts
}

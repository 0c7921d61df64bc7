package gateway

import (
	"time"

	"orders-analytics/internal/entity"
)

// Output table names. A run replaces all five.
const (
	OrdersTable           = "orders"
	CustomersAnalysis     = "customers_analysis"
	SellersAnalysis       = "sellers_analysis"
	ProductsAnalysis      = "products_analysis"
	SalesAnalysis         = "sales_analysis"
)

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

// FactTable renders the order fact table in its fixed column order.
func FactTable(facts []entity.OrderFact) Table {
	table := Table{
		Name: OrdersTable,
		Columns: []Column{
			{Name: "order_id", Type: Text},
			{Name: "customer_unique_id", Type: Text},
			{Name: "order_status", Type: Text},
			{Name: "order_purchase_timestamp", Type: Timestamp},
			{Name: "order_approved_at", Type: Timestamp},
			{Name: "order_delivered_carrier_date", Type: Timestamp},
			{Name: "order_delivered_customer_date", Type: Timestamp},
			{Name: "order_estimated_delivery_date", Type: Timestamp},
			{Name: "customer_city", Type: Text},
			{Name: "price", Type: Float},
			{Name: "freight_value", Type: Float},
			{Name: "product_id", Type: Text},
			{Name: "product_category_name", Type: Text},
			{Name: "seller_id", Type: Text},
			{Name: "item_quantity", Type: Integer},
			{Name: "payment_installments", Type: Integer},
			{Name: "payment_value", Type: Float},
			{Name: "review_score", Type: Integer},
			{Name: "seller_city", Type: Text},
			{Name: "product_category_name_english", Type: Text},
		},
	}
	table.Rows = make([][]any, 0, len(facts))
	for i := range facts {
		f := &facts[i]
		table.Rows = append(table.Rows, []any{
			f.OrderID,
			nullableString(f.CustomerUniqueID),
			f.OrderStatus,
			nullableTime(f.PurchaseTimestamp),
			nullableTime(f.ApprovedAt),
			nullableTime(f.DeliveredCarrierDate),
			nullableTime(f.DeliveredCustomerDate),
			nullableTime(f.EstimatedDeliveryDate),
			nullableString(f.CustomerCity),
			nullableFloat(f.Price),
			nullableFloat(f.FreightValue),
			nullableString(f.ProductID),
			nullableString(f.ProductCategoryName),
			nullableString(f.SellerID),
			nullableInt(f.ItemQuantity),
			nullableInt(f.PaymentInstallments),
			nullableFloat(f.PaymentValue),
			nullableInt(f.ReviewScore),
			nullableString(f.SellerCity),
			nullableString(f.ProductCategoryNameEnglish),
		})
	}
	return table
}

func CustomerSpendingTable(rows []entity.CustomerSpendingRow) Table {
	table := Table{
		Name: CustomersAnalysis,
		Columns: []Column{
			{Name: "customer_unique_id", Type: Text},
			{Name: "total_orders_value", Type: Float},
			{Name: "order_count", Type: Integer},
			{Name: "total_shipping_cost", Type: Float},
			{Name: "total_payment_value", Type: Float},
			{Name: "last_order_date", Type: Timestamp},
			{Name: "first_order_date", Type: Timestamp},
			{Name: "customer_city", Type: Text},
		},
	}
	table.Rows = make([][]any, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		table.Rows = append(table.Rows, []any{
			r.CustomerUniqueID,
			r.TotalOrdersValue,
			r.OrderCount,
			r.TotalShippingCost,
			r.TotalPaymentValue,
			nullableTime(r.LastOrderDate),
			nullableTime(r.FirstOrderDate),
			nullableString(r.CustomerCity),
		})
	}
	return table
}

func SellerSalesTable(rows []entity.SellerSalesRow) Table {
	table := Table{
		Name: SellersAnalysis,
		Columns: []Column{
			{Name: "seller_id", Type: Text},
			{Name: "total_orders_value", Type: Float},
			{Name: "total_orders", Type: Integer},
			{Name: "total_products_sold", Type: Integer},
			{Name: "seller_city", Type: Text},
		},
	}
	table.Rows = make([][]any, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		table.Rows = append(table.Rows, []any{
			r.SellerID,
			r.TotalOrdersValue,
			r.TotalOrders,
			r.TotalProductsSold,
			nullableString(r.SellerCity),
		})
	}
	return table
}

func ProductSalesTable(rows []entity.ProductSalesRow) Table {
	table := Table{
		Name: ProductsAnalysis,
		Columns: []Column{
			{Name: "product_id", Type: Text},
			{Name: "total_sold", Type: Integer},
			{Name: "total_sales", Type: Float},
			{Name: "average_price", Type: Float},
			{Name: "product_category", Type: Text},
		},
	}
	table.Rows = make([][]any, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		table.Rows = append(table.Rows, []any{
			r.ProductID,
			r.TotalSold,
			r.TotalSales,
			r.AveragePrice,
			nullableString(r.ProductCategory),
		})
	}
	return table
}

func SalesSnapshotTable(s entity.SalesSnapshot) Table {
	return Table{
		Name: SalesAnalysis,
		Columns: []Column{
			{Name: "top_seller_id", Type: Text},
			{Name: "top_seller_sales", Type: Float},
			{Name: "top_customer_id", Type: Text},
			{Name: "top_customer_spent", Type: Float},
			{Name: "most_sold_product_id", Type: Text},
			{Name: "most_sold_product_count", Type: Integer},
			{Name: "avg_order_value", Type: Float},
			{Name: "avg_shipping_fee", Type: Float},
		},
		Rows: [][]any{{
			s.TopSellerID,
			s.TopSellerSales,
			s.TopCustomerID,
			s.TopCustomerSpent,
			s.MostSoldProductID,
			s.MostSoldProductCount,
			s.AvgOrderValue,
			s.AvgShippingFee,
		}},
	}
}

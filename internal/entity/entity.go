package entity

import "time"

// Raw source records. One struct per source table, columns mapped
// field-by-field; unknown CSV columns are rejected at load time.

type Customer struct {
	CustomerID       string
	CustomerUniqueID string
	CustomerCity     string
}

type Order struct {
	OrderID               string
	CustomerID            string
	OrderStatus           string
	PurchaseTimestamp     *time.Time
	ApprovedAt            *time.Time
	DeliveredCarrierDate  *time.Time
	DeliveredCustomerDate *time.Time
	EstimatedDeliveryDate *time.Time
}

type OrderItem struct {
	OrderID      string
	OrderItemID  string
	ProductID    string
	SellerID     string
	Price        float64
	FreightValue float64
}

type Payment struct {
	OrderID             string
	PaymentInstallments int
	PaymentValue        float64
}

type Review struct {
	ReviewID    string
	OrderID     string
	ReviewScore int
}

type Product struct {
	ProductID    string
	CategoryName *string
}

type Seller struct {
	SellerID   string
	SellerCity string
}

type CategoryTranslation struct {
	CategoryName        string
	CategoryNameEnglish string
}

// RawTables holds the eight source tables for one pipeline run. They are
// read-only inputs; nothing downstream mutates them.
type RawTables struct {
	Customers    []Customer
	Orders       []Order
	OrderItems   []OrderItem
	Payments     []Payment
	Reviews      []Review
	Products     []Product
	Sellers      []Seller
	Translations []CategoryTranslation
}

// OrderFact is the denormalized per-order row produced by the transform.
// Columns that a left join can leave unmatched are pointers so that "no
// data" stays distinct from an explicit zero.
type OrderFact struct {
	OrderID                    string     `json:"order_id"`
	CustomerUniqueID           *string    `json:"customer_unique_id"`
	OrderStatus                string     `json:"order_status"`
	PurchaseTimestamp          *time.Time `json:"order_purchase_timestamp"`
	ApprovedAt                 *time.Time `json:"order_approved_at"`
	DeliveredCarrierDate       *time.Time `json:"order_delivered_carrier_date"`
	DeliveredCustomerDate      *time.Time `json:"order_delivered_customer_date"`
	EstimatedDeliveryDate      *time.Time `json:"order_estimated_delivery_date"`
	CustomerCity               *string    `json:"customer_city"`
	Price                      *float64   `json:"price"`
	FreightValue               *float64   `json:"freight_value"`
	ProductID                  *string    `json:"product_id"`
	ProductCategoryName        *string    `json:"product_category_name"`
	SellerID                   *string    `json:"seller_id"`
	ItemQuantity               *int       `json:"item_quantity"`
	PaymentInstallments        *int       `json:"payment_installments"`
	PaymentValue               *float64   `json:"payment_value"`
	ReviewScore                *int       `json:"review_score"`
	SellerCity                 *string    `json:"seller_city"`
	ProductCategoryNameEnglish *string    `json:"product_category_name_english"`
}

// Derived view rows. Each view is recomputed per run and handed to the
// persistence gateway with replace semantics.

type CustomerSpendingRow struct {
	CustomerUniqueID  string     `json:"customer_unique_id"`
	TotalOrdersValue  float64    `json:"total_orders_value"`
	OrderCount        int        `json:"order_count"`
	TotalShippingCost float64    `json:"total_shipping_cost"`
	TotalPaymentValue float64    `json:"total_payment_value"`
	LastOrderDate     *time.Time `json:"last_order_date"`
	FirstOrderDate    *time.Time `json:"first_order_date"`
	CustomerCity      *string    `json:"customer_city"`
}

type SellerSalesRow struct {
	SellerID          string  `json:"seller_id"`
	TotalOrdersValue  float64 `json:"total_orders_value"`
	TotalOrders       int     `json:"total_orders"`
	TotalProductsSold int     `json:"total_products_sold"`
	SellerCity        *string `json:"seller_city"`
}

type ProductSalesRow struct {
	ProductID       string  `json:"product_id"`
	TotalSold       int     `json:"total_sold"`
	TotalSales      float64 `json:"total_sales"`
	AveragePrice    float64 `json:"average_price"`
	ProductCategory *string `json:"product_category"`
}

// SalesSnapshot is the single-row global KPI summary.
type SalesSnapshot struct {
	TopSellerID          string  `json:"top_seller_id"`
	TopSellerSales       float64 `json:"top_seller_sales"`
	TopCustomerID        string  `json:"top_customer_id"`
	TopCustomerSpent     float64 `json:"top_customer_spent"`
	MostSoldProductID    string  `json:"most_sold_product_id"`
	MostSoldProductCount int     `json:"most_sold_product_count"`
	AvgOrderValue        float64 `json:"avg_order_value"`
	AvgShippingFee       float64 `json:"avg_shipping_fee"`
}

type TopCustomerRow struct {
	CustomerUniqueID  string  `json:"customer_unique_id"`
	TotalOrdersValue  float64 `json:"total_orders_value"`
	TotalItemsOrdered int     `json:"total_items_ordered"`
}

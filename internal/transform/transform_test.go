package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orders-analytics/internal/entity"
)

func strPtr(v string) *string { return &v }

func ts(value string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func fixtureTables() *entity.RawTables {
	return &entity.RawTables{
		Customers: []entity.Customer{
			{CustomerID: "c1", CustomerUniqueID: "cust_1", CustomerCity: "sao paulo"},
			{CustomerID: "c2", CustomerUniqueID: "cust_2", CustomerCity: "rio de janeiro"},
			{CustomerID: "c3", CustomerUniqueID: "cust_3", CustomerCity: "curitiba"},
		},
		Orders: []entity.Order{
			{OrderID: "o1", CustomerID: "c1", OrderStatus: "delivered", PurchaseTimestamp: ts("2022-01-01 10:00:00")},
			{OrderID: "o2", CustomerID: "c2", OrderStatus: "delivered", PurchaseTimestamp: ts("2022-01-02 11:30:00")},
			{OrderID: "o3", CustomerID: "c3", OrderStatus: "shipped", PurchaseTimestamp: ts("2022-01-03 09:15:00")},
		},
		OrderItems: []entity.OrderItem{
			{OrderID: "o1", OrderItemID: "1", ProductID: "p1", SellerID: "s1", Price: 60, FreightValue: 6},
			{OrderID: "o1", OrderItemID: "2", ProductID: "p2", SellerID: "s2", Price: 40, FreightValue: 4},
			{OrderID: "o2", OrderItemID: "1", ProductID: "p2", SellerID: "s2", Price: 200, FreightValue: 20},
		},
		Payments: []entity.Payment{
			{OrderID: "o1", PaymentInstallments: 3, PaymentValue: 50},
			{OrderID: "o1", PaymentInstallments: 1, PaymentValue: 60},
			{OrderID: "o2", PaymentInstallments: 1, PaymentValue: 220},
		},
		Reviews: []entity.Review{
			{ReviewID: "r1", OrderID: "o1", ReviewScore: 5},
			{ReviewID: "r2", OrderID: "o1", ReviewScore: 4},
			{ReviewID: "r3", OrderID: "o2", ReviewScore: 3},
		},
		Products: []entity.Product{
			{ProductID: "p1", CategoryName: strPtr("moveis_decoracao")},
			{ProductID: "p2", CategoryName: strPtr("beleza_saude")},
		},
		Sellers: []entity.Seller{
			{SellerID: "s1", SellerCity: "ibitinga"},
			{SellerID: "s2", SellerCity: "franca"},
		},
		Translations: []entity.CategoryTranslation{
			{CategoryName: "moveis_decoracao", CategoryNameEnglish: "furniture_decor"},
			{CategoryName: "beleza_saude", CategoryNameEnglish: "health_beauty"},
		},
	}
}

func TestBuildOrderFactsOneRowPerOrder(t *testing.T) {
	facts := BuildOrderFacts(fixtureTables())

	require.Len(t, facts, 3)
	seen := map[string]bool{}
	for _, f := range facts {
		assert.False(t, seen[f.OrderID], "duplicate order_id %s", f.OrderID)
		seen[f.OrderID] = true
	}
}

func TestBuildOrderFactsAggregatesItemsAndPayments(t *testing.T) {
	facts := BuildOrderFacts(fixtureTables())

	f := facts[0]
	require.Equal(t, "o1", f.OrderID)
	require.NotNil(t, f.Price)
	assert.InDelta(t, 100.0, *f.Price, 1e-9)
	require.NotNil(t, f.FreightValue)
	assert.InDelta(t, 10.0, *f.FreightValue, 1e-9)
	require.NotNil(t, f.ItemQuantity)
	assert.Equal(t, 2, *f.ItemQuantity)
	require.NotNil(t, f.PaymentValue)
	assert.InDelta(t, 110.0, *f.PaymentValue, 1e-9)
	require.NotNil(t, f.PaymentInstallments)
	assert.Equal(t, 3, *f.PaymentInstallments, "installments come from the first payment row")
}

func TestBuildOrderFactsFirstSeenItemAttribution(t *testing.T) {
	facts := BuildOrderFacts(fixtureTables())

	f := facts[0]
	require.NotNil(t, f.ProductID)
	assert.Equal(t, "p1", *f.ProductID)
	require.NotNil(t, f.SellerID)
	assert.Equal(t, "s1", *f.SellerID)
	require.NotNil(t, f.SellerCity)
	assert.Equal(t, "ibitinga", *f.SellerCity)
	require.NotNil(t, f.ProductCategoryName)
	assert.Equal(t, "moveis_decoracao", *f.ProductCategoryName)
	require.NotNil(t, f.ProductCategoryNameEnglish)
	assert.Equal(t, "furniture_decor", *f.ProductCategoryNameEnglish)
}

func TestBuildOrderFactsTruncatesReviewMean(t *testing.T) {
	facts := BuildOrderFacts(fixtureTables())

	f := facts[0]
	require.NotNil(t, f.ReviewScore)
	assert.Equal(t, 4, *f.ReviewScore, "mean of 5 and 4 is 4.5, truncated to 4")
}

func TestBuildOrderFactsItemlessOrderKeepsNulls(t *testing.T) {
	facts := BuildOrderFacts(fixtureTables())

	f := facts[2]
	require.Equal(t, "o3", f.OrderID)
	assert.Nil(t, f.Price, "absence of items is null, not zero")
	assert.Nil(t, f.FreightValue)
	assert.Nil(t, f.ItemQuantity)
	assert.Nil(t, f.ProductID)
	assert.Nil(t, f.SellerID)
	assert.Nil(t, f.SellerCity)
	assert.Nil(t, f.PaymentValue)
	assert.Nil(t, f.PaymentInstallments)
	assert.Nil(t, f.ReviewScore)
	require.NotNil(t, f.CustomerUniqueID)
	assert.Equal(t, "cust_3", *f.CustomerUniqueID)
}

func TestBuildOrderFactsUnmatchedCustomerSurvives(t *testing.T) {
	raw := fixtureTables()
	raw.Orders = append(raw.Orders, entity.Order{OrderID: "o4", CustomerID: "missing", OrderStatus: "created"})

	facts := BuildOrderFacts(raw)

	require.Len(t, facts, 4)
	f := facts[3]
	assert.Equal(t, "o4", f.OrderID)
	assert.Nil(t, f.CustomerUniqueID)
	assert.Nil(t, f.CustomerCity)
}

func TestBuildOrderFactsDeterministic(t *testing.T) {
	first := BuildOrderFacts(fixtureTables())
	second := BuildOrderFacts(fixtureTables())

	require.Equal(t, first, second)
}

package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orders-analytics/internal/entity"
)

func TestFactTableRendersNulls(t *testing.T) {
	customer := "cust_1"
	price := 100.5
	now := time.Date(2022, 1, 1, 10, 0, 0, 0, time.UTC)
	facts := []entity.OrderFact{
		{
			OrderID:           "o1",
			CustomerUniqueID:  &customer,
			OrderStatus:       "delivered",
			PurchaseTimestamp: &now,
			Price:             &price,
		},
		{OrderID: "o2", OrderStatus: "created"},
	}

	table := FactTable(facts)

	assert.Equal(t, OrdersTable, table.Name)
	require.Len(t, table.Columns, 20)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "o1", table.Rows[0][0])
	assert.Equal(t, "cust_1", table.Rows[0][1])
	assert.Equal(t, now, table.Rows[0][3])
	assert.Equal(t, 100.5, table.Rows[0][9])

	assert.Nil(t, table.Rows[1][1], "unmatched customer renders as null, not empty string")
	assert.Nil(t, table.Rows[1][3])
	assert.Nil(t, table.Rows[1][9])
}

func TestSalesSnapshotTableIsSingleRow(t *testing.T) {
	table := SalesSnapshotTable(entity.SalesSnapshot{
		TopSellerID:    "seller_2",
		TopSellerSales: 200,
		AvgOrderValue:  150,
	})

	assert.Equal(t, SalesAnalysis, table.Name)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "seller_2", table.Rows[0][0])
	assert.Equal(t, 200.0, table.Rows[0][1])
	assert.Equal(t, 150.0, table.Rows[0][6])
}

func TestCreateStatementTypes(t *testing.T) {
	table := Table{
		Name: "t",
		Columns: []Column{
			{Name: "id", Type: Text},
			{Name: "v", Type: Float},
			{Name: "n", Type: Integer},
			{Name: "at", Type: Timestamp},
		},
	}

	assert.Equal(t,
		"CREATE TABLE t (id TEXT, v DOUBLE PRECISION, n BIGINT, at TIMESTAMP)",
		createStatement(table, "postgres"))
	assert.Equal(t,
		"CREATE TABLE t (id TEXT, v DOUBLE, n BIGINT, at DATETIME)",
		createStatement(table, "mysql"))
}

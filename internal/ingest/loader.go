package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"orders-analytics/internal/entity"
)

// Timestamp layouts accepted in the source files. Olist exports full
// timestamps; date-only values appear in hand-built fixtures.
var timeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// Loader reads the eight raw entity tables from a directory. It either
// loads all of them or fails; a partially loaded run is never returned.
type Loader struct {
	dir     string
	sources map[string]string
	log     *zap.Logger
}

func NewLoader(dir string, sources map[string]string, log *zap.Logger) *Loader {
	return &Loader{dir: dir, sources: sources, log: log}
}

func (l *Loader) Load() (*entity.RawTables, error) {
	required := []string{
		"customers", "orders", "order_items", "payments",
		"reviews", "products", "sellers", "category_translation",
	}

	paths := make(map[string]string, len(required))
	for _, name := range required {
		filename, ok := l.sources[name]
		if !ok {
			return nil, &MissingSourceError{Entity: name, Path: "(no source configured)"}
		}
		path := filepath.Join(l.dir, filename)
		if _, err := os.Stat(path); err != nil {
			return nil, &MissingSourceError{Entity: name, Path: path}
		}
		paths[name] = path
	}

	raw := &entity.RawTables{}
	var err error

	if raw.Customers, err = loadCustomers(paths["customers"]); err != nil {
		return nil, err
	}
	if raw.Orders, err = loadOrders(paths["orders"]); err != nil {
		return nil, err
	}
	if raw.OrderItems, err = loadOrderItems(paths["order_items"]); err != nil {
		return nil, err
	}
	if raw.Payments, err = loadPayments(paths["payments"]); err != nil {
		return nil, err
	}
	if raw.Reviews, err = loadReviews(paths["reviews"]); err != nil {
		return nil, err
	}
	if raw.Products, err = loadProducts(paths["products"]); err != nil {
		return nil, err
	}
	if raw.Sellers, err = loadSellers(paths["sellers"]); err != nil {
		return nil, err
	}
	if raw.Translations, err = loadTranslations(paths["category_translation"]); err != nil {
		return nil, err
	}

	l.log.Info("raw tables loaded",
		zap.Int("customers", len(raw.Customers)),
		zap.Int("orders", len(raw.Orders)),
		zap.Int("order_items", len(raw.OrderItems)),
		zap.Int("payments", len(raw.Payments)),
		zap.Int("reviews", len(raw.Reviews)),
		zap.Int("products", len(raw.Products)),
		zap.Int("sellers", len(raw.Sellers)),
		zap.Int("category_translations", len(raw.Translations)),
	)
	return raw, nil
}

// source wraps a parsed CSV file and resolves required columns by name.
// Extra columns in the file are ignored.
type source struct {
	name   string
	header map[string]int
	rows   [][]string
}

func readSource(path string) (*source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: file has no header row", path)
	}

	header := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		header[col] = i
	}
	return &source{name: filepath.Base(path), header: header, rows: records[1:]}, nil
}

func (s *source) column(name string) (int, error) {
	idx, ok := s.header[name]
	if !ok {
		return 0, &SchemaError{Source: s.name, Column: name}
	}
	return idx, nil
}

func (s *source) columns(names ...string) ([]int, error) {
	idxs := make([]int, len(names))
	for i, name := range names {
		idx, err := s.column(name)
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
	}
	return idxs, nil
}

func parseFloat(src, col, value string, line int) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %s: invalid number %q", src, line, col, value)
	}
	return v, nil
}

func parseInt(src, col, value string, line int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %s: invalid integer %q", src, line, col, value)
	}
	return v, nil
}

// parseTime returns nil for an empty value; an order that was never
// delivered simply has no delivery timestamp.
func parseTime(src, col, value string, line int) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s line %d: column %s: invalid timestamp %q", src, line, col, value)
}

func loadCustomers(path string) ([]entity.Customer, error) {
	s, err := readSource(path)
	if err != nil {
		return nil, err
	}
	idx, err := s.columns("customer_id", "customer_unique_id", "customer_city")
	if err != nil {
		return nil, err
	}

	out := make([]entity.Customer, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, entity.Customer{
			CustomerID:       row[idx[0]],
			CustomerUniqueID: row[idx[1]],
			CustomerCity:     row[idx[2]],
		})
	}
	return out, nil
}

func loadOrders(path string) ([]entity.Order, error) {
	s, err := readSource(path)
	if err != nil {
		return nil, err
	}
	cols := []string{
		"order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_approved_at",
		"order_delivered_carrier_date", "order_delivered_customer_date",
		"order_estimated_delivery_date",
	}
	idx, err := s.columns(cols...)
	if err != nil {
		return nil, err
	}

	out := make([]entity.Order, 0, len(s.rows))
	for i, row := range s.rows {
		line := i + 2
		order := entity.Order{
			OrderID:     row[idx[0]],
			CustomerID:  row[idx[1]],
			OrderStatus: row[idx[2]],
		}
		dests := []**time.Time{
			&order.PurchaseTimestamp, &order.ApprovedAt,
			&order.DeliveredCarrierDate, &order.DeliveredCustomerDate,
			&order.EstimatedDeliveryDate,
		}
		for j, dest := range dests {
			t, err := parseTime(s.name, cols[j+3], row[idx[j+3]], line)
			if err != nil {
				return nil, err
			}
			*dest = t
		}
		out = append(out, order)
	}
	return out, nil
}

func loadOrderItems(path string) ([]entity.OrderItem, error) {
	s, err := readSource(path)
	if err != nil {
		return nil, err
	}
	idx, err := s.columns("order_id", "order_item_id", "product_id", "seller_id", "price", "freight_value")
	if err != nil {
		return nil, err
	}

	out := make([]entity.OrderItem, 0, len(s.rows))
	for i, row := range s.rows {
		line := i + 2
		price, err := parseFloat(s.name, "price", row[idx[4]], line)
		if err != nil {
			return nil, err
		}
		freight, err := parseFloat(s.name, "freight_value", row[idx[5]], line)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.OrderItem{
			OrderID:      row[idx[0]],
			OrderItemID:  row[idx[1]],
			ProductID:    row[idx[2]],
			SellerID:     row[idx[3]],
			Price:        price,
			FreightValue: freight,
		})
	}
	return out, nil
}

func loadPayments(path string) ([]entity.Payment, error) {
	s, err := readSource(path)
	if err != nil {
		return nil, err
	}
	idx, err := s.columns("order_id", "payment_installments", "payment_value")
	if err != nil {
		return nil, err
	}

	out := make([]entity.Payment, 0, len(s.rows))
	for i, row := range s.rows {
		line := i + 2
		installments, err := parseInt(s.name, "payment_installments", row[idx[1]], line)
		if err != nil {
			return nil, err
		}
		value, err := parseFloat(s.name, "payment_value", row[idx[2]], line)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Payment{
			OrderID:             row[idx[0]],
			PaymentInstallments: installments,
			PaymentValue:        value,
		})
	}
	return out, nil
}

func loadReviews(path string) ([]entity.Review, error) {
	s, err := readSource(path)
	if err != nil {
		return nil, err
	}
	idx, err := s.columns("review_id", "order_id", "review_score")
	if err != nil {
		return nil, err
	}

	out := make([]entity.Review, 0, len(s.rows))
	for i, row := range s.rows {
		score, err := parseInt(s.name, "review_score", row[idx[2]], i+2)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Review{
			ReviewID:    row[idx[0]],
			OrderID:     row[idx[1]],
			ReviewScore: score,
		})
	}
	return out, nil
}

func loadProducts(path string) ([]entity.Product, error) {
	s, err := readSource(path)
	if err != nil {
		return nil, err
	}
	idx, err := s.columns("product_id", "product_category_name")
	if err != nil {
		return nil, err
	}

	out := make([]entity.Product, 0, len(s.rows))
	for _, row := range s.rows {
		p := entity.Product{ProductID: row[idx[0]]}
		if name := row[idx[1]]; name != "" {
			p.CategoryName = &name
		}
		out = append(out, p)
	}
	return out, nil
}

func loadSellers(path string) ([]entity.Seller, error) {
	s, err := readSource(path)
	if err != nil {
		return nil, err
	}
	idx, err := s.columns("seller_id", "seller_city")
	if err != nil {
		return nil, err
	}

	out := make([]entity.Seller, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, entity.Seller{
			SellerID:   row[idx[0]],
			SellerCity: row[idx[1]],
		})
	}
	return out, nil
}

func loadTranslations(path string) ([]entity.CategoryTranslation, error) {
	s, err := readSource(path)
	if err != nil {
		return nil, err
	}
	idx, err := s.columns("product_category_name", "product_category_name_english")
	if err != nil {
		return nil, err
	}

	out := make([]entity.CategoryTranslation, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, entity.CategoryTranslation{
			CategoryName:        row[idx[0]],
			CategoryNameEnglish: row[idx[1]],
		})
	}
	return out, nil
}

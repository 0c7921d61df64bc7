// Package api exposes the query and analytics operations over HTTP. It
// serves from the in-memory fact table of the most recent pipeline run;
// the persistence gateway is only touched when analytics are refreshed.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orders-analytics/internal/analytics"
	"orders-analytics/internal/entity"
	"orders-analytics/internal/query"
)

// ViewRefresher re-persists the four analytic views from a fact table.
type ViewRefresher interface {
	RefreshViews(ctx context.Context, facts []entity.OrderFact) error
}

type Server struct {
	mu        sync.RWMutex
	facts     []entity.OrderFact
	refresher ViewRefresher
	log       *zap.Logger
}

func NewServer(facts []entity.OrderFact, refresher ViewRefresher, log *zap.Logger) *Server {
	return &Server{facts: facts, refresher: refresher, log: log}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.GET("/load_table", s.loadTable)
	api.GET("/customers", s.customers)
	api.GET("/sellers", s.sellers)
	api.GET("/products", s.products)
	api.GET("/sales_analysis", s.salesAnalysis)
	api.GET("/orders_by_date", s.ordersByDate)
	api.GET("/top_customers", s.topCustomers)
	api.GET("/orders_by_customer", s.ordersByCustomer)
	api.GET("/orders_by_seller", s.ordersBySeller)
	api.GET("/orders_by_product", s.ordersByProduct)
	api.POST("/update_analytics", s.updateAnalytics)

	return router
}

func (s *Server) snapshot() []entity.OrderFact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.facts
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": data})
}

func respondError(c *gin.Context, err error) {
	var inputErr *query.InputValidationError
	var parseErr *query.ParseError

	status := http.StatusInternalServerError
	if errors.As(err, &inputErr) || errors.As(err, &parseErr) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"status": "error", "message": err.Error()})
}

func respondMissingParam(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": message})
}

func (s *Server) loadTable(c *gin.Context) {
	tableName := c.Query("table_name")
	if tableName == "" {
		respondMissingParam(c, "Table name is required")
		return
	}
	if tableName != "orders" {
		respondMissingParam(c, "unknown table: "+tableName)
		return
	}
	respondData(c, s.snapshot())
}

func (s *Server) customers(c *gin.Context) {
	respondData(c, analytics.CustomerSpending(s.snapshot()))
}

func (s *Server) sellers(c *gin.Context) {
	respondData(c, analytics.SellerSales(s.snapshot()))
}

func (s *Server) products(c *gin.Context) {
	respondData(c, analytics.ProductSales(s.snapshot()))
}

func (s *Server) salesAnalysis(c *gin.Context) {
	respondData(c, analytics.SalesSnapshot(s.snapshot()))
}

func (s *Server) ordersByDate(c *gin.Context) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" || end == "" {
		respondMissingParam(c, "Start date and end date are required")
		return
	}
	rows, err := query.FilterByDateRange(s.snapshot(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, rows)
}

func (s *Server) topCustomers(c *gin.Context) {
	n := 10
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondMissingParam(c, "n must be an integer")
			return
		}
		n = parsed
	}
	rows, err := query.TopCustomers(s.snapshot(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, rows)
}

func (s *Server) ordersByCustomer(c *gin.Context) {
	id := c.Query("customer_id")
	if id == "" {
		respondMissingParam(c, "Customer ID is required")
		return
	}
	rows, err := query.FilterByCustomer(s.snapshot(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, rows)
}

func (s *Server) ordersBySeller(c *gin.Context) {
	id := c.Query("seller_id")
	if id == "" {
		respondMissingParam(c, "Seller ID is required")
		return
	}
	rows, err := query.FilterBySeller(s.snapshot(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, rows)
}

func (s *Server) ordersByProduct(c *gin.Context) {
	id := c.Query("product_id")
	if id == "" {
		respondMissingParam(c, "Product ID is required")
		return
	}
	rows, err := query.FilterByProduct(s.snapshot(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, rows)
}

func (s *Server) updateAnalytics(c *gin.Context) {
	if err := s.refresher.RefreshViews(c.Request.Context(), s.snapshot()); err != nil {
		s.log.Error("analytics refresh failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Analytics tables updated successfully"})
}

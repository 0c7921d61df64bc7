// Package runner drives one batch pipeline run: ingest the raw tables,
// build the fact table, derive the four analytic views, and hand every
// output to the persistence gateway.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"orders-analytics/internal/analytics"
	"orders-analytics/internal/entity"
	"orders-analytics/internal/gateway"
	"orders-analytics/internal/ingest"
	"orders-analytics/internal/transform"
)

type Runner struct {
	loader *ingest.Loader
	gw     gateway.Gateway
	log    *zap.Logger
}

func New(loader *ingest.Loader, gw gateway.Gateway, log *zap.Logger) *Runner {
	return &Runner{loader: loader, gw: gw, log: log}
}

type StageTiming struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration"`
}

type RunReport struct {
	RunID              string        `json:"run_id"`
	Orders             int           `json:"orders"`
	FactRows           int           `json:"fact_rows"`
	TablesWritten      int           `json:"tables_written"`
	Stages             []StageTiming `json:"stages"`
	AveragePersistTime time.Duration `json:"average_persist_time"`
	P95PersistTime     time.Duration `json:"p95_persist_time"`
	TotalTime          time.Duration `json:"total_time"`
}

// Run executes one pipeline run and returns the report together with the
// fact table it produced. The fact table is recomputed from scratch; no
// state survives between runs.
func (r *Runner) Run(ctx context.Context) (*RunReport, []entity.OrderFact, error) {
	report := &RunReport{RunID: uuid.New().String()}
	totalStart := time.Now()

	log := r.log.With(zap.String("run_id", report.RunID))
	log.Info("pipeline run starting")

	stageStart := time.Now()
	raw, err := r.loader.Load()
	if err != nil {
		return nil, nil, err
	}
	report.Stages = append(report.Stages, StageTiming{Stage: "ingest", Duration: time.Since(stageStart)})
	report.Orders = len(raw.Orders)

	stageStart = time.Now()
	facts := transform.BuildOrderFacts(raw)
	report.Stages = append(report.Stages, StageTiming{Stage: "transform", Duration: time.Since(stageStart)})
	report.FactRows = len(facts)
	log.Info("fact table built", zap.Int("rows", len(facts)))

	// The four views read the same immutable fact table, so they can be
	// computed concurrently.
	stageStart = time.Now()
	var (
		wg        sync.WaitGroup
		customers []entity.CustomerSpendingRow
		sellers   []entity.SellerSalesRow
		products  []entity.ProductSalesRow
		snapshot  entity.SalesSnapshot
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		customers = analytics.CustomerSpending(facts)
	}()
	go func() {
		defer wg.Done()
		sellers = analytics.SellerSales(facts)
	}()
	go func() {
		defer wg.Done()
		products = analytics.ProductSales(facts)
	}()
	go func() {
		defer wg.Done()
		snapshot = analytics.SalesSnapshot(facts)
	}()
	wg.Wait()
	report.Stages = append(report.Stages, StageTiming{Stage: "analytics", Duration: time.Since(stageStart)})

	// Max persist latency of 10 seconds, significant figures of 3
	histogram := hdrhistogram.New(1, 10000000000, 3)

	stageStart = time.Now()
	tables := []gateway.Table{
		gateway.FactTable(facts),
		gateway.CustomerSpendingTable(customers),
		gateway.SellerSalesTable(sellers),
		gateway.ProductSalesTable(products),
		gateway.SalesSnapshotTable(snapshot),
	}
	for _, table := range tables {
		writeStart := time.Now()
		if err := r.gw.Replace(ctx, table); err != nil {
			return nil, nil, err
		}
		histogram.RecordValue(time.Since(writeStart).Microseconds())
		report.TablesWritten++
		log.Info("table replaced", zap.String("table", table.Name), zap.Int("rows", len(table.Rows)))
	}
	report.Stages = append(report.Stages, StageTiming{Stage: "persist", Duration: time.Since(stageStart)})

	report.AveragePersistTime = time.Duration(histogram.Mean()) * time.Microsecond
	report.P95PersistTime = time.Duration(histogram.ValueAtQuantile(95)) * time.Microsecond
	report.TotalTime = time.Since(totalStart)

	log.Info("pipeline run completed", zap.Duration("total_time", report.TotalTime))
	return report, facts, nil
}

// RefreshViews recomputes the four analytic views from an existing fact
// table and re-persists them, leaving the fact table untouched.
func (r *Runner) RefreshViews(ctx context.Context, facts []entity.OrderFact) error {
	tables := []gateway.Table{
		gateway.CustomerSpendingTable(analytics.CustomerSpending(facts)),
		gateway.SellerSalesTable(analytics.SellerSales(facts)),
		gateway.ProductSalesTable(analytics.ProductSales(facts)),
		gateway.SalesSnapshotTable(analytics.SalesSnapshot(facts)),
	}
	for _, table := range tables {
		if err := r.gw.Replace(ctx, table); err != nil {
			return err
		}
		r.log.Info("table replaced", zap.String("table", table.Name), zap.Int("rows", len(table.Rows)))
	}
	return nil
}

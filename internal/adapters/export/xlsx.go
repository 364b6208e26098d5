package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

// ReportSet bundles every report computed over one snapshot, so a workbook is
// internally consistent even if the base tables change between exports.
type ReportSet struct {
	Monthly      []domain.MonthlyKPI      `json:"monthly"`
	Customers    []domain.CustomerStats   `json:"customers"`
	Retention    domain.RetentionMatrix   `json:"retention"`
	Categories   []domain.CategoryRevenue `json:"categories"`
	Deciles      []domain.DecileBucket    `json:"deciles"`
	Frequency    []domain.OrderFrequency  `json:"frequency"`
	TopCustomers []domain.CustomerStats   `json:"top_customers"`
	Quality      domain.QualityCounts     `json:"quality"`
}

const monthLayout = "2006-01"

// WriteWorkbook renders the report set as one XLSX sheet per report.
func WriteWorkbook(w io.Writer, rs *ReportSet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Monthly KPIs"); err != nil {
		return err
	}
	row := sheetWriter{f: f, sheet: "Monthly KPIs"}
	row.add("month", "total_orders", "revenue", "aov")
	for _, m := range rs.Monthly {
		row.add(m.Month.Format(monthLayout), m.TotalOrders, m.Revenue, m.AOV)
	}
	if row.err != nil {
		return row.err
	}

	if err := writeSheet(f, "Customers", func(row *sheetWriter) {
		row.add("customer_uid", "order_count", "total_revenue")
		for _, c := range rs.Customers {
			row.add(c.CustomerUID, c.OrderCount, c.TotalRevenue)
		}
	}); err != nil {
		return err
	}

	sizeOf := map[time.Time]int{}
	for _, c := range rs.Retention.Cohorts {
		sizeOf[c.CohortMonth] = c.Customers
	}
	if err := writeSheet(f, "Retention", func(row *sheetWriter) {
		row.add("cohort_month", "activity_month", "month_number", "active_customers", "retention_rate")
		for _, cell := range rs.Retention.Cells {
			rate := 0.0
			if n := sizeOf[cell.CohortMonth]; n > 0 {
				rate = float64(cell.ActiveCustomers) / float64(n)
			}
			row.add(cell.CohortMonth.Format(monthLayout), cell.ActivityMonth.Format(monthLayout),
				cell.MonthNumber, cell.ActiveCustomers, rate)
		}
	}); err != nil {
		return err
	}

	if err := writeSheet(f, "Cohort Sizes", func(row *sheetWriter) {
		row.add("cohort_month", "customers")
		for _, c := range rs.Retention.Cohorts {
			row.add(c.CohortMonth.Format(monthLayout), c.Customers)
		}
	}); err != nil {
		return err
	}

	if err := writeSheet(f, "Categories", func(row *sheetWriter) {
		row.add("category", "revenue", "orders")
		for _, c := range rs.Categories {
			row.add(c.Category, c.Revenue, c.Orders)
		}
	}); err != nil {
		return err
	}

	if err := writeSheet(f, "Revenue Deciles", func(row *sheetWriter) {
		row.add("decile", "customers", "revenue")
		for _, d := range rs.Deciles {
			row.add(d.Decile, d.Customers, d.Revenue)
		}
	}); err != nil {
		return err
	}

	if err := writeSheet(f, "Order Frequency", func(row *sheetWriter) {
		row.add("order_count", "customers")
		for _, fr := range rs.Frequency {
			row.add(fr.OrderCount, fr.Customers)
		}
	}); err != nil {
		return err
	}

	if err := writeSheet(f, "Top Customers", func(row *sheetWriter) {
		row.add("customer_uid", "order_count", "total_revenue")
		for _, c := range rs.TopCustomers {
			row.add(c.CustomerUID, c.OrderCount, c.TotalRevenue)
		}
	}); err != nil {
		return err
	}

	if err := writeSheet(f, "Data Quality", func(row *sheetWriter) {
		row.add("check", "count")
		row.add("delivered orders without delivery timestamp", rs.Quality.DeliveredNoTimestamp)
		row.add("items referencing missing orders", rs.Quality.ItemsMissingOrder)
		row.add("items referencing missing products", rs.Quality.ItemsMissingProduct)
		row.add("orders referencing missing customers", rs.Quality.OrdersMissingCustomer)
		row.add("products without category", rs.Quality.ProductsNoCategory)
		row.add("customers with zero delivered orders", rs.Quality.CustomersNoDelivered)
		row.add("orders with misspelled 'deliverd' status", rs.Quality.MisspelledDelivered)
	}); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	n     int
	err   error
}

func (sw *sheetWriter) add(vals ...any) {
	if sw.err != nil {
		return
	}
	sw.n++
	cell, err := excelize.CoordinatesToCellName(1, sw.n)
	if err != nil {
		sw.err = err
		return
	}
	sw.err = sw.f.SetSheetRow(sw.sheet, cell, &vals)
}

func writeSheet(f *excelize.File, name string, fill func(*sheetWriter)) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}
	sw := &sheetWriter{f: f, sheet: name}
	fill(sw)
	return sw.err
}

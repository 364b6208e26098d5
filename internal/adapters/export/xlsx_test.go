package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

func sampleReportSet() *ReportSet {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &ReportSet{
		Monthly: []domain.MonthlyKPI{
			{Month: jan, TotalOrders: 2, Revenue: 150.00, AOV: 75.00},
		},
		Customers: []domain.CustomerStats{
			{CustomerUID: "u1", OrderCount: 1, TotalRevenue: 30.00},
		},
		Retention: domain.RetentionMatrix{
			Cells: []domain.RetentionCell{
				{CohortMonth: jan, ActivityMonth: jan, MonthNumber: 0, ActiveCustomers: 2},
				{CohortMonth: jan, ActivityMonth: mar, MonthNumber: 2, ActiveCustomers: 1},
			},
			Cohorts: []domain.CohortSize{{CohortMonth: jan, Customers: 2}},
		},
		Categories: []domain.CategoryRevenue{
			{Category: "toys", Revenue: 150.00, Orders: 2},
		},
		Deciles:      []domain.DecileBucket{{Decile: 1, Customers: 1, Revenue: 30.00}},
		Frequency:    []domain.OrderFrequency{{OrderCount: 1, Customers: 1}},
		TopCustomers: []domain.CustomerStats{{CustomerUID: "u1", OrderCount: 1, TotalRevenue: 30.00}},
		Quality:      domain.QualityCounts{DeliveredNoTimestamp: 8},
	}
}

func TestWriteWorkbookRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleReportSet()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{"Monthly KPIs", "Customers", "Retention", "Cohort Sizes", "Categories", "Revenue Deciles", "Order Frequency", "Top Customers", "Data Quality"} {
		require.Contains(t, sheets, want)
	}

	rows, err := f.GetRows("Monthly KPIs")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"month", "total_orders", "revenue", "aov"}, rows[0])
	require.Equal(t, "2024-01", rows[1][0])
	require.Equal(t, "150", rows[1][2])
	require.Equal(t, "75", rows[1][3])
}

func TestWriteWorkbookDerivesRetentionRate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleReportSet()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Retention")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// month 0: 2 of 2 active; month 2: 1 of 2
	require.Equal(t, "1", rows[1][4])
	require.Equal(t, "0.5", rows[2][4])
}

func TestTimestampedFilename(t *testing.T) {
	got := TimestampedFilename("reports", "monthly", "json")
	require.Equal(t, "reports", filepath.Dir(got))
	base := filepath.Base(got)
	require.True(t, strings.HasPrefix(base, "monthly_"))
	require.True(t, strings.HasSuffix(base, ".json"))
}

func TestWriteJSONFileCreatesDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")
	require.NoError(t, WriteJSONFile(path, map[string]int{"rows": 3}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"rows": 3`)
}

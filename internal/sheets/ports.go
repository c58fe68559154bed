package sheets

import (
	"context"

	"schooldesk/internal/report"
)

// Ports for outbound adapters.
type (
	// ReportSink receives every regenerated report. Implementations replace
	// whatever they held for the same tenant and kind.
	ReportSink interface {
		WriteReport(ctx context.Context, tenant string, t report.Table) error
	}
)

// TabName is the spreadsheet tab holding one tenant's report, e.g.
// "greenhill fees-summary".
func TabName(tenant string, kind report.Kind) string {
	return tenant + " " + string(kind)
}

package report

import "context"

// Service builds historical attendance reports with summary statistics.
type Service interface {
	GetReport(ctx context.Context, filter ReportFilter) (ReportResponse, error)
}

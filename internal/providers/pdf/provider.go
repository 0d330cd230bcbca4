package pdf

import (
	"context"
	"io"
)

type Provider interface {
	GenerateDayReport(ctx context.Context, data DayReportData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateDayReport(ctx context.Context, data DayReportData) (io.Reader, error) {
	return nil, nil
}

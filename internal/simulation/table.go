package simulation

import (
	"fmt"

	"github.com/phamminh1998/GBM-Frontier-Market/internal/calendar"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/domain/models"
)

// BuildTable runs the full pipeline for one symbol: business-day index,
// simulated price matrix, cross-path average. The returned table is ready
// for export.
//
// The config must already be validated; BuildTable only enforces the
// structural failures that depend on the calendar: a reversed range and a
// range without business days (ErrEmptyDateIndex).
func (g *Generator) BuildTable(cfg models.SimulationConfig) (*models.PathTable, error) {
	dates, err := calendar.BusinessDays(cfg.StartDate, cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("building date index: %w", err)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%s to %s: %w",
			cfg.StartDate.Format(calendar.DateLayout),
			cfg.EndDate.Format(calendar.DateLayout),
			ErrEmptyDateIndex,
		)
	}

	prices, err := g.Paths(len(dates), cfg.NumSims, cfg.InitPrice, cfg.Mu, cfg.Sigma)
	if err != nil {
		return nil, fmt.Errorf("simulating %d paths over %d steps: %w", cfg.NumSims, len(dates), err)
	}

	return &models.PathTable{
		Dates:   dates,
		Prices:  prices,
		Average: Average(prices),
	}, nil
}

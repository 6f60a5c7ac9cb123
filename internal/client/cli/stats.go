package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
)

// collectStats reads the gateway request counters from g.
func collectStats(g prometheus.Gatherer) ([]statRow, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	rows := make([]statRow, 0)
	for _, mf := range families {
		if mf.GetName() != client.RequestsMetric {
			continue
		}
		for _, m := range mf.GetMetric() {
			row := statRow{Count: m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "method":
					row.Method = lp.GetValue()
				case "code":
					row.Code = lp.GetValue()
				}
			}
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Method != rows[j].Method {
			return rows[i].Method < rows[j].Method
		}
		return rows[i].Code < rows[j].Code
	})
	return rows, nil
}

// Stats prints how many backend requests this process made.
func (a *App) Stats(ctx context.Context) error {
	if a.metrics == nil {
		fmt.Fprintln(a.out, "Request metrics are not collected for this backend.")
		return nil
	}
	rows, err := collectStats(a.metrics)
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	renderStats(a.out, rows)
	return nil
}

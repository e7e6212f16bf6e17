package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"MedMonitor/internal/config"
)

type analyticsCmd struct{}

func (analyticsCmd) Name() string        { return "analytics" }
func (analyticsCmd) Description() string { return "Show per-metric summary for the last days" }
func (analyticsCmd) Usage() string       { return "analytics [days]" }

func (analyticsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	days := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return ErrUsage
		}
		days = n
	}

	c := newSession(cfg)
	data, err := c.AnalyticsSummary(ctx, days)
	if err != nil {
		return err
	}

	metrics, _ := data["metrics"].(map[string]any)
	if len(metrics) == 0 {
		fmt.Fprintln(Out, "No data for this period")
		return nil
	}
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s, ok := metrics[name].(map[string]any)
		if !ok {
			continue
		}
		avg, _ := s["average"].(float64)
		min, _ := s["min"].(float64)
		max, _ := s["max"].(float64)
		count, _ := s["count"].(float64)
		fmt.Fprintf(Out, "  %-14s avg %.1f  min %.1f  max %.1f  (%d samples)\n", name, avg, min, max, int(count))
	}
	if n, ok := data["anomalies_count"].(float64); ok && n > 0 {
		fmt.Fprintf(Out, "Anomalies detected: %.0f\n", n)
	}
	return nil
}

func init() { RegisterCmd(analyticsCmd{}) }

package commands

import (
	"context"
	"fmt"
	"strconv"

	"MedMonitor/internal/config"
)

type historyCmd struct{}

func (historyCmd) Name() string        { return "history" }
func (historyCmd) Description() string { return "Show a metric series for the last hours" }
func (historyCmd) Usage() string       { return "history <metric> [hours]" }

func (historyCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	hours := 24
	if len(args) > 1 {
		h, err := strconv.Atoi(args[1])
		if err != nil {
			return ErrUsage
		}
		hours = h
	}

	c := newSession(cfg)
	data, err := c.VitalsHistory(ctx, args[0], hours)
	if err != nil {
		return err
	}
	points, _ := data["data"].([]any)
	if len(points) == 0 {
		fmt.Fprintln(Out, "No data for this period")
		return nil
	}
	for _, p := range points {
		point, ok := p.(map[string]any)
		if !ok {
			continue
		}
		ts, _ := point["timestamp"].(string)
		v, _ := point["value"].(float64)
		fmt.Fprintf(Out, "  %s  %.1f\n", ts, v)
	}
	return nil
}

func init() { RegisterCmd(historyCmd{}) }

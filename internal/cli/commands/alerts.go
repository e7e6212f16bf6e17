package commands

import (
	"context"
	"fmt"
	"strconv"

	"MedMonitor/internal/config"
)

type alertsCmd struct{}

func (alertsCmd) Name() string        { return "alerts" }
func (alertsCmd) Description() string { return "Show recent threshold alerts" }
func (alertsCmd) Usage() string       { return "alerts [limit]" }

func (alertsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return ErrUsage
		}
		limit = n
	}

	c := newSession(cfg)
	data, err := c.Alerts(ctx, limit)
	if err != nil {
		return err
	}
	alerts, _ := data["alerts"].([]any)
	if len(alerts) == 0 {
		fmt.Fprintln(Out, "No alerts")
		return nil
	}
	for _, a := range alerts {
		alert, ok := a.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := alert["type"].(string)
		msg, _ := alert["message"].(string)
		fmt.Fprintf(Out, "  [%s] %s\n", typ, msg)
	}
	return nil
}

func init() { RegisterCmd(alertsCmd{}) }

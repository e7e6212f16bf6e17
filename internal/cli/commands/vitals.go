package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"MedMonitor/internal/config"
)

// vitalUnits — подписи единиц для вывода показателей.
var vitalUnits = map[string]string{
	"heart_rate":   "bpm",
	"spo2":         "%",
	"temperature":  "°C",
	"bp_systolic":  "mmHg",
	"bp_diastolic": "mmHg",
}

type vitalsCmd struct{}

func (vitalsCmd) Name() string        { return "vitals" }
func (vitalsCmd) Description() string { return "Show the latest measurement or submit one" }
func (vitalsCmd) Usage() string       { return "vitals [add <metric>=<value> ...]" }

func (vitalsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	c := newSession(cfg)

	if len(args) > 0 && args[0] == "add" {
		if len(args) < 2 {
			return ErrUsage
		}
		payload := map[string]any{}
		for _, kv := range args[1:] {
			name, raw, ok := strings.Cut(kv, "=")
			if !ok {
				return ErrUsage
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			payload[name] = v
		}
		data, err := c.AddVitals(ctx, payload)
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, "Measurement saved")
		if n, ok := data["alerts"].(float64); ok && n > 0 {
			fmt.Fprintf(Out, "Triggered %.0f alert(s)\n", n)
		}
		return nil
	}

	data, err := c.LatestVitals(ctx)
	if err != nil {
		return err
	}
	latest, ok := data["latest"].(map[string]any)
	if !ok || latest == nil {
		fmt.Fprintln(Out, "No measurements yet")
		return nil
	}
	printVitals(latest)
	return nil
}

func printVitals(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		if _, ok := m[k].(float64); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		unit := vitalUnits[k]
		fmt.Fprintf(Out, "  %-14s %.1f %s\n", k, m[k], unit)
	}
	if ts, ok := m["recorded_at"].(string); ok && ts != "" {
		fmt.Fprintf(Out, "  recorded at %s\n", ts)
	}
}

func init() { RegisterCmd(vitalsCmd{}) }

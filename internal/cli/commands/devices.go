package commands

import (
	"context"
	"fmt"

	"MedMonitor/internal/config"
)

type devicesCmd struct{}

func (devicesCmd) Name() string        { return "devices" }
func (devicesCmd) Description() string { return "Manage connected devices" }
func (devicesCmd) Usage() string {
	return "devices [add <name> <type> | rm <id> | set <id> <active|inactive>]"
}

func (devicesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	c := newSession(cfg)

	if len(args) == 0 {
		data, err := c.Devices(ctx)
		if err != nil {
			return err
		}
		devices, _ := data["devices"].([]any)
		if len(devices) == 0 {
			fmt.Fprintln(Out, "No devices registered")
			return nil
		}
		for _, d := range devices {
			dev, ok := d.(map[string]any)
			if !ok {
				continue
			}
			id, _ := dev["id"].(string)
			name, _ := dev["name"].(string)
			status, _ := dev["status"].(string)
			battery, _ := dev["battery"].(float64)
			fmt.Fprintf(Out, "  %s  %-20s %-8s battery %.0f%%\n", id, name, status, battery)
		}
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			return ErrUsage
		}
		data, err := c.RegisterDevice(ctx, map[string]any{"name": args[1], "device_type": args[2]})
		if err != nil {
			return err
		}
		if id, ok := data["id"].(string); ok {
			fmt.Fprintf(Out, "Device registered: %s\n", id)
			return nil
		}
		fmt.Fprintln(Out, "Device registered")
		return nil
	case "rm":
		if len(args) < 2 {
			return ErrUsage
		}
		if _, err := c.DeleteDevice(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(Out, "Device removed")
		return nil
	case "set":
		if len(args) < 3 {
			return ErrUsage
		}
		if _, err := c.UpdateDeviceStatus(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintln(Out, "Device status updated")
		return nil
	default:
		return ErrUsage
	}
}

func init() { RegisterCmd(devicesCmd{}) }

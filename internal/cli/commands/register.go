package commands

import (
	"context"
	"fmt"

	"MedMonitor/internal/config"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and login" }
func (registerCmd) Usage() string {
	return "register <email> <password> [first-name] [last-name]"
}

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	var first, last string
	if len(args) > 2 {
		first = args[2]
	}
	if len(args) > 3 {
		last = args[3]
	}

	c := newSession(cfg)
	payload := map[string]any{
		"email":      args[0],
		"password":   args[1],
		"first_name": first,
		"last_name":  last,
	}
	if _, err := c.Register(ctx, payload); err != nil {
		return err
	}
	// регистрация не выдаёт токены — логинимся следом
	if _, err := c.Login(ctx, args[0], args[1]); err != nil {
		return fmt.Errorf("registered, but login failed: %w", err)
	}
	fmt.Fprintln(Out, "Account created, you are logged in")
	return nil
}

func init() { RegisterCmd(registerCmd{}) }

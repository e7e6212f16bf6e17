package commands

import (
	"context"
	"fmt"

	"MedMonitor/internal/cli/session"
	"MedMonitor/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store the token pair locally" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	c := newSession(cfg)
	data, err := c.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if u := session.NormalizeUser(data); u != nil && u.FullName != "" {
		fmt.Fprintf(Out, "Logged in as %s\n", u.FullName)
		return nil
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

func init() { RegisterCmd(loginCmd{}) }

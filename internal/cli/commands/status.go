package commands

import (
	"context"
	"fmt"

	"MedMonitor/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show session state and current user" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, _ []string) error {
	c := newSession(cfg)
	if !c.IsAuthenticated() {
		fmt.Fprintln(Out, "Not logged in")
		return nil
	}
	if !c.CheckAuthStatus(ctx) {
		fmt.Fprintln(Out, "Session invalid, please login again")
		return nil
	}
	if u := cachedUser(cfg); u != nil {
		fmt.Fprintf(Out, "Logged in as %s (%s)\n", u.FullName, u.Email)
		return nil
	}
	fmt.Fprintln(Out, "Logged in")
	return nil
}

func init() { RegisterCmd(statusCmd{}) }

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"MedMonitor/internal/cli/repo/fs"
	"MedMonitor/internal/cli/session"
	"MedMonitor/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <email> <password>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"MedMonitor CLI",
		"",
		"Usage:",
		"  medmon [--base-url <host:port>|URL] <command> [args]",
		"",
		"Commands:",
	}
	for _, c := range List() {
		lines = append(lines, fmt.Sprintf("  %-34s %s", c.Usage(), c.Description()))
	}
	return strings.Join(lines, "\n") + "\n"
}

// newSession собирает сессионный клиент поверх файлового хранилища токенов.
func newSession(cfg *config.Config) *session.Client {
	log := zap.NewNop().Sugar()
	if cfg.Verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			log = dev.Sugar()
		}
	}
	store := fs.AuthFSStore{Dir: cfg.TokenDir}
	c := session.NewClient(cfg.ServerURL, store, log)
	c.OnUnauthorized = func() {
		fmt.Fprintln(Out, "Session expired, please login again")
	}
	return c
}

// cachedUser читает нормализованного пользователя из локального кэша.
func cachedUser(cfg *config.Config) *session.User {
	store := fs.AuthFSStore{Dir: cfg.TokenDir}
	raw, err := store.LoadUser()
	if err != nil || len(raw) == 0 {
		return nil
	}
	var u session.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}

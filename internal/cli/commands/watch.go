package commands

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"MedMonitor/internal/cli/live"
	"MedMonitor/internal/cli/repo/fs"
	"MedMonitor/internal/config"
)

type watchCmd struct{}

func (watchCmd) Name() string        { return "watch" }
func (watchCmd) Description() string { return "Stream live vitals until interrupted" }
func (watchCmd) Usage() string       { return "watch" }

func (watchCmd) Run(ctx context.Context, cfg *config.Config, _ []string) error {
	u := cachedUser(cfg)
	if u == nil || u.ID == 0 {
		fmt.Fprintln(Out, "Not logged in")
		return nil
	}

	log := zap.NewNop().Sugar()
	if cfg.Verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			log = dev.Sugar()
		}
	}

	store := fs.AuthFSStore{Dir: cfg.TokenDir}
	board := live.NewBoard()
	conn := live.NewConnector(cfg.WSURL, u.ID, store.AccessToken, log)
	conn.OnVitals = func(data map[string]any) {
		board.ApplyVitals(data)
		printLiveVitals(board.Current())
	}
	conn.OnAlert = func(data map[string]any) {
		board.AddAlert(data)
		msg, _ := data["message"].(string)
		fmt.Fprintf(Out, "!! %s\n", msg)
	}
	done := make(chan struct{})
	conn.OnState = wrapTerminal(func(s live.State) {
		fmt.Fprintf(Out, "-- feed %s\n", s)
	}, done)

	conn.Connect()
	defer conn.Close()

	// до Ctrl+C или терминального закрытия фида
	select {
	case <-ctx.Done():
	case <-done:
	}
	return nil
}

// wrapTerminal закрывает done при переходе фида в closed.
func wrapTerminal(next func(live.State), done chan struct{}) func(live.State) {
	closed := false
	return func(s live.State) {
		if next != nil {
			next(s)
		}
		if s == live.StateClosed && !closed {
			closed = true
			close(done)
		}
	}
}

func printLiveVitals(current map[string]float64) {
	keys := make([]string, 0, len(current))
	for k := range current {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	line := ""
	for _, k := range keys {
		line += fmt.Sprintf("%s=%.1f  ", k, current[k])
	}
	fmt.Fprintln(Out, line)
}

func init() { RegisterCmd(watchCmd{}) }

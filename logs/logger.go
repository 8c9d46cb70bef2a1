package logs

import (
	"context"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/reusee/plaintest/cmds"
	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

var level = new(slog.LevelVar)

// LevelEnv names the environment variable holding the initial log level.
const LevelEnv = "PLAINTEST_LOG"

func init() {
	// reports go to stdout; keep stderr quiet unless asked
	level.Set(slog.LevelWarn)
	if str := os.Getenv(LevelEnv); str != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(str)); err == nil {
			level.Set(l)
		}
	}

	cmds.Define("-log-debug", cmds.Func(func() {
		level.Set(slog.LevelDebug)
	}).Desc("set log level to debug"))
	cmds.Define("-log-info", cmds.Func(func() {
		level.Set(slog.LevelInfo)
	}).Desc("set log level to info"))
	cmds.Define("-log-warn", cmds.Func(func() {
		level.Set(slog.LevelWarn)
	}).Desc("set log level to warn"))
	cmds.Define("-log-error", cmds.Func(func() {
		level.Set(slog.LevelError)
	}).Desc("set log level to error"))
}

type Logger = *slog.Logger

// AppName is attached to every record so harness logs can be told apart
// from subject output in a shared journal.
const AppName = "plaintest"

func (Module) Logger(
	writer Writer,
) Logger {
	var handlers []slog.Handler

	// a service logs to the journal only
	var text slog.Handler
	if !underService() {
		text = slog.NewTextHandler(writer, &slog.HandlerOptions{
			Level: level,
		})
		handlers = append(handlers, text)
	}

	journal, err := slogjournal.NewHandler(&slogjournal.Options{
		ReplaceGroup: toJournalKey,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a.Key = toJournalKey(a.Key)
			return a
		},
	})
	switch {
	case err == nil:
		handlers = append(handlers, journal)
	case text != nil && text.Enabled(context.Background(), slog.LevelDebug):
		record := slog.NewRecord(time.Now(), slog.LevelDebug, "journal unavailable", 0)
		record.AddAttrs(slog.String("error", err.Error()))
		_ = text.Handle(context.Background(), record)
	}

	return slog.New(&Handler{
		Handler: slogmulti.Fanout(handlers...),
	}).With("app", AppName)
}

// toJournalKey maps attribute keys to journal field names: upper case
// letters, digits and underscores.
func toJournalKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		}
		return '_'
	}, key)
}

func underService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	return serviceCgroup(string(content))
}

// serviceCgroup reports whether the process is in a systemd service unit,
// given the content of /proc/self/cgroup.
func serviceCgroup(content string) bool {
	for line := range strings.Lines(content) {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 3)
		if len(parts) < 3 {
			continue
		}
		if strings.HasSuffix(path.Dir(parts[2]), ".service") {
			return true
		}
	}
	return false
}

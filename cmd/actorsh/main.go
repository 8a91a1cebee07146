// Command actorsh is the interactive shell described by the runtime's
// external interface: a small REPL for manually exercising a live
// Runtime, seeded with the same Hello/World actor pair the original demo
// used to exercise ping-pong delivery and a perf probe.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nsroot/actorhub/actor"
	"github.com/nsroot/actorhub/config"
	"github.com/nsroot/actorhub/log"
)

func main() {
	cmd := &cli.Command{
		Name:  "actorsh",
		Usage: "interactive shell for exercising an actor runtime",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file (optional)",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.NewZap(parseLevel(cfg.LogLevel), os.Stdout)

	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return fmt.Errorf("starting runtime: %w", err)
	}
	defer rt.Shutdown()

	seed(rt, logger)

	if err := repl(os.Stdin, os.Stdout, rt); err != nil {
		return err
	}
	return nil
}

func newRuntime(cfg config.Config, logger log.Logger) (*actor.Runtime[string, string], error) {
	opts := []actor.Option{
		actor.WithLogger(logger),
		actor.WithDefaultOverhead(cfg.DefaultOverhead),
		actor.WithDefaultCapacity(cfg.DefaultCapacity),
	}
	if cfg.Mode == config.ModePool {
		opts = append(opts, actor.WithWorkers(cfg.Workers), actor.WithBatchBound(cfg.BatchBound))
		return actor.NewPoolRuntime[string, string](opts...)
	}
	return actor.NewDedicatedRuntime[string, string](opts...), nil
}

// seed registers the same four Hello/World pairs the original demo's
// main() registered before entering its command loop.
func seed(rt *actor.Runtime[string, string], logger log.Logger) {
	for i := 1; i <= 4; i++ {
		name := fmt.Sprintf("Hello%d", i)
		if err := rt.Register(name, &helloActor{id: name, logger: logger}); err != nil {
			logger.Errorf("seeding %s: %v", name, err)
		}
	}
	for i := 1; i <= 4; i++ {
		name := fmt.Sprintf("World%d", i)
		if err := rt.Register(name, &worldActor{}); err != nil {
			logger.Errorf("seeding %s: %v", name, err)
		}
	}
}

// repl reads whitespace-tokenised commands from in and writes responses to
// out: test <src> <dst>, perf, del <name>, exit.
func repl(in io.Reader, out io.Writer, rt *actor.Runtime[string, string]) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "exit":
			return nil
		case "test":
			if len(fields) != 3 {
				fmt.Fprintln(out, "usage: test <src> <dst>")
				continue
			}
			res := rt.Send("Console", fields[1], fields[2], "")
			fmt.Fprintln(out, res)
		case "perf":
			for i := 1; i <= 4; i++ {
				rt.Send("Console", fmt.Sprintf("Hello%d", i), "perf", "")
			}
		case "del":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: del <name>")
				continue
			}
			rt.Release(fields[1])
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
	return scanner.Err()
}

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarningLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// helloActor forwards every message whose kind is not "perf" to the actor
// named by that kind, using the kind as the message it sends on — exactly
// the original demo's "sendMessage(messageName, messageName, NULL)". On
// "perf" it reports the throughput it has observed since the first
// forwarded message, the Go rendering of the original's Stopwatch-timed
// QPS readout.
type helloActor struct {
	id      string
	logger  log.Logger
	count   atomic.Int64
	started time.Time
}

func (h *helloActor) OnEnter() error { return nil }

func (h *helloActor) OnMessage(ctx *actor.Context[string, string]) {
	if ctx.Kind() == "perf" {
		h.reportPerf()
		return
	}
	target := ctx.Kind()
	ctx.Send(target, target, "")
	if h.started.IsZero() {
		h.started = time.Now()
	}
	h.count.Add(1)
}

func (h *helloActor) reportPerf() {
	count := h.count.Load()
	if h.started.IsZero() {
		h.logger.Infof("%s: msgCnt=%d", h.id, count)
		return
	}
	elapsed := time.Since(h.started)
	if elapsed <= 0 {
		h.logger.Infof("%s: msgCnt=%d", h.id, count)
		return
	}
	qps := float64(count) * float64(time.Second) / float64(elapsed)
	h.logger.Infof("%s: qps=%.2f", h.id, qps)
}

func (h *helloActor) OnExit() {}

// worldActor echoes every message straight back to whoever sent it.
type worldActor struct{}

func (w *worldActor) OnEnter() error { return nil }

func (w *worldActor) OnMessage(ctx *actor.Context[string, string]) {
	ctx.Send(ctx.Source(), ctx.Kind(), "")
}

func (w *worldActor) OnExit() {}

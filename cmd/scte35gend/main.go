// Command scte35gend drives a sig.Generator against a simulated mux
// clock, logging every emitted PSI section. It exists to exercise the
// generator end-to-end outside of a test binary.
package main

import (
	"context"
	"encoding/hex"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zsiec/scte35gen/internal/sig"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	tickEvery := envOrDuration("TICK_INTERVAL", 40*time.Millisecond)
	interval := envOrUint64("SCTE35_INTERVAL", 2_700_000) // 100ms of 27MHz ticks
	eventEvery := envOrDuration("DEMO_EVENT_INTERVAL", 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		slog.Info("received signal, shutting down", "signal", s)
		cancel()
	}()

	gen := sig.NewGenerator(&logEmitter{}, nil)
	if err := gen.SetFlowDef("void.scte35."); err != nil {
		slog.Error("failed to set flow def", "error", err)
		os.Exit(1)
	}
	if err := gen.SetInterval(interval); err != nil {
		slog.Error("failed to set interval", "error", err)
		os.Exit(1)
	}

	slog.Info("scte35gend starting",
		"tick_interval", tickEvery,
		"scte35_interval_27mhz", interval,
		"demo_event_interval", eventEvery,
	)

	g, ctx := errgroup.WithContext(ctx)
	var eventID uint32 = 1

	g.Go(func() error {
		return runTickLoop(ctx, gen, tickEvery)
	})

	g.Go(func() error {
		return runDemoEventLoop(ctx, gen, eventEvery, &eventID)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		slog.Error("scte35gend exited with error", "error", err)
		os.Exit(1)
	}
}

// runTickLoop advances a simulated 27 MHz mux clock and calls Tick on
// every wakeup, the way a real muxer calls PREPARE once per packet
// cadence.
func runTickLoop(ctx context.Context, gen *sig.Generator, every time.Duration) error {
	crSys := uint64(0)
	step := uint64(every) * 27 / 1000 // 27 ticks of the host clock per microsecond
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			crSys += step
			genMu.Lock()
			err := gen.Tick(crSys, 0)
			genMu.Unlock()
			if err != nil {
				return err
			}
		}
	}
}

// genMu serializes the tick loop's and the demo event loop's calls into
// the generator, which must not be entered from two goroutines at once.
var genMu sync.Mutex

// runDemoEventLoop periodically injects a splice_insert event with a 30s
// break and no splice PTS. Only its immediate form is built; with a
// cr_sys of 0 it is sent on the next qualifying tick and then dropped.
// The scheduled form is not exercised.
func runDemoEventLoop(ctx context.Context, gen *sig.Generator, every time.Duration, eventID *uint32) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			*eventID++
			duration := uint64(30 * 27_000_000) // 30s break
			genMu.Lock()
			err := gen.PushEvent(sig.Input{
				Start: true, End: true,
				HasCommandType: true,
				CommandType:    sig.CommandInsert,
				EventID:        *eventID,
				OutOfNetwork:   true,
				AutoReturn:     true,
				Duration:       &duration,
				PTSSys:         0,
			})
			genMu.Unlock()
			if err != nil {
				slog.Error("failed to push demo event", "error", err)
			}
		}
	}
}

// logEmitter satisfies sig.Emitter by logging every section instead of
// handing it to a real multiplexer.
type logEmitter struct{}

func (logEmitter) Emit(section []byte, crSys uint64) error {
	slog.Debug("emit scte35 section", "cr_sys", crSys, "bytes", len(section), "hex", hex.EncodeToString(section))
	return nil
}

func (logEmitter) PublishFlowDef(def sig.OutputFlowDef) error {
	slog.Info("publish output flow def",
		"psi_section_interval", def.PSISectionInterval,
		"octet_rate", def.OctetRate,
		"tb_rate", def.TBRate,
	)
	return nil
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envOrUint64(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

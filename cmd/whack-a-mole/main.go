// Command whack-a-mole runs the four-button whack-a-mole game: buttons on GPIO,
// a two-row character display, game events on MQTT and an HTTP status page.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/whack-a-mole/internal/cell"
	"github.com/sweeney/whack-a-mole/internal/clock"
	"github.com/sweeney/whack-a-mole/internal/config"
	"github.com/sweeney/whack-a-mole/internal/display"
	"github.com/sweeney/whack-a-mole/internal/gpio"
	"github.com/sweeney/whack-a-mole/internal/logic"
	"github.com/sweeney/whack-a-mole/internal/mqtt"
	"github.com/sweeney/whack-a-mole/internal/status"
	"github.com/sweeney/whack-a-mole/internal/store"
	"github.com/sweeney/whack-a-mole/internal/web"
)

// storeSize is the size of the settings image, matching a small EEPROM.
const storeSize = 64

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	printButtons := flag.Bool("print-buttons", false, "Print current button levels and exit")
	overrides := config.RegisterFlags(flag.CommandLine)

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := overrides.Apply(&cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printButtons); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printButtons bool) error {
	if printButtons {
		w, err := gpio.NewRealWatcher(cfg.GPIO.Chip, cfg.Pins(), nil)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer w.Close()
		levels, err := w.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Println(formatLevels(levels))
		return nil
	}

	// Persisted settings
	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
		log.Printf("store: %v", err)
	}
	gateway := store.NewGateway(store.NewFileBacking(cfg.StorePath, storeSize))
	record, err := gateway.Load()
	if err != nil {
		log.Printf("store: %v", err)
		if !record.Valid() {
			record = store.Default()
		}
	}
	log.Printf("store: high score %d, difficulty %d", record.HighScore, record.Difficulty)

	// Clock, input and game
	bell := cell.NewDoorbell()
	clk := clock.New(logic.GameTickMs, bell)
	buttons := logic.NewDebouncer(clk, logic.DebounceWindowMs, bell)
	game := logic.NewGame(buttons, logic.NewRandom(uint64(time.Now().UnixNano())), record.Settings(), gateway)

	watcher, err := gpio.NewRealWatcher(cfg.GPIO.Chip, cfg.Pins(), func(ch int) {
		buttons.Edge(logic.Channel(ch))
	})
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go clk.Run(ctx, time.Millisecond)

	// Display
	screen, closeScreen, err := openDisplay(cfg.Display)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer closeScreen()

	// MQTT
	publisher := mqtt.NewRealPublisher(cfg.Broker)
	defer publisher.Close()

	// Status tracker (before STARTUP so the snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Chip:        cfg.GPIO.Chip,
		Pins:        cfg.Pins(),
		Display:     cfg.Display.Kind,
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		StorePath:   cfg.StorePath,
	})
	tracker.SetDifficulty(record.Difficulty)

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: pins=%v display=%s broker=%s heartbeat=%v", cfg.GPIO.Pins, cfg.Display.Kind, cfg.Broker, cfg.Heartbeat)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	c := &console{
		clock:      clk,
		buttons:    buttons,
		game:       game,
		screen:     screen,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		heartbeat:  logic.NewHeartbeat(uint32(cfg.Heartbeat.Milliseconds()), clk.Now()),
		now:        time.Now,
	}
	return runLoop(c, bell.C(), sigCh)
}

func openDisplay(cfg config.Display) (display.Writer, func(), error) {
	switch cfg.Kind {
	case config.DisplaySerial:
		s, err := display.OpenSerial(cfg.Device, cfg.Baud)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Printf("display: %v", err)
			}
		}, nil
	default:
		fmt.Fprint(os.Stdout, "\x1b[2J")
		return display.NewTerminal(os.Stdout), func() {
			fmt.Fprintf(os.Stdout, "\x1b[%d;1H\n", display.Rows+1)
		}, nil
	}
}

// gameClock is the part of clock.Clock the loop reads.
type gameClock interface {
	Now() clock.Ticks
	TickDue() bool
}

// console is everything the main loop owns. Only the loop goroutine touches it.
type console struct {
	clock      gameClock
	buttons    *logic.Debouncer
	game       *logic.Game
	screen     display.Writer
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	heartbeat  *logic.Heartbeat
	now        func() time.Time
}

// step runs one loop iteration: drain and apply presses, then, if a game tick
// has elapsed, expire and spawn moles and redraw.
func (c *console) step() {
	c.emit(c.game.HandlePresses(c.clock.Now(), c.buttons.Drain()))

	if !c.clock.TickDue() {
		return
	}
	now := c.clock.Now()
	c.emit(c.game.Tick(now))
	c.draw()

	if hb := c.heartbeat.Check(now, c.game.Counts()); hb != nil {
		c.publishHeartbeat(hb)
	}
}

// draw renders the current state to the display and the status tracker.
func (c *console) draw() {
	state := c.game.State()
	moles := c.game.Moles()
	top, bottom := logic.Render(state, moles)

	for row, line := range [display.Rows]logic.Line{top, bottom} {
		if err := c.screen.WriteRow(row, line); err != nil {
			log.Printf("display error: %v", err)
		}
	}

	if c.tracker != nil {
		c.tracker.Update(state, moles, top, bottom, c.game.Counts())
		if c.mqttStatus != nil {
			c.tracker.SetMQTTConnected(c.mqttStatus.IsConnected())
		}
	}
}

func (c *console) emit(events []logic.Event) {
	for _, event := range events {
		switch event.Type {
		case logic.EventSpawn, logic.EventExpire:
			// Too frequent for the log; still published.
		default:
			log.Printf("event: %s (channel=%d score=%d high=%d)", event.Type, int(event.Channel)+1, event.Score, event.HighScore)
		}
		if err := c.publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
		}
	}
}

func (c *console) publishHeartbeat(hb *logic.HeartbeatData) {
	log.Printf("heartbeat: uptime=%dms games=%d hits=%d misses=%d",
		hb.UptimeMs, hb.Counts.Games, hb.Counts.Hits, hb.Counts.Misses)

	event := mqtt.SystemEvent{
		Timestamp: c.now(),
		Event:     "HEARTBEAT",
	}
	if c.tracker != nil {
		event.RawPayload = status.FormatStatusEvent(c.tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := c.publisher.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

func (c *console) shutdown(s os.Signal) {
	log.Printf("received %v, shutting down", s)
	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}
	event := mqtt.SystemEvent{
		Timestamp: c.now(),
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Retained:  true,
	}
	if c.tracker != nil {
		if c.mqttStatus != nil {
			c.tracker.SetMQTTConnected(c.mqttStatus.IsConnected())
		}
		event.RawPayload = status.FormatStatusEvent(c.tracker.Snapshot(), "SHUTDOWN", signalName)
	}
	if err := c.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

// runLoop draws the start screen, then runs a step every time wake fires
// until a signal arrives.
func runLoop(c *console, wake <-chan struct{}, sig <-chan os.Signal) error {
	c.draw()
	for {
		select {
		case s := <-sig:
			c.shutdown(s)
			return nil
		case <-wake:
			c.step()
		}
	}
}

func formatLevels(levels [gpio.NumButtons]bool) string {
	parts := make([]string, len(levels))
	for i, pressed := range levels {
		state := "released"
		if pressed {
			state = "pressed"
		}
		parts[i] = fmt.Sprintf("%d: %s", i+1, state)
	}
	return strings.Join(parts, ", ")
}

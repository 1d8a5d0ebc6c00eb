// cmd/supervisor/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcuz1234/mynd-firmware/internal/board"
	"github.com/marcuz1234/mynd-firmware/internal/config"
	"github.com/marcuz1234/mynd-firmware/internal/conn"
	"github.com/marcuz1234/mynd-firmware/internal/link/serial"
	"github.com/marcuz1234/mynd-firmware/internal/status"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: supervisor <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	sc := cfg.Supervisor

	// --------------------
	// Build hardware adapters
	// --------------------

	brd, err := board.Open(board.Config{
		Chip:                 sc.GPIO.Chip,
		JackDetectLine:       sc.GPIO.JackDetectLine,
		JackActiveLow:        sc.GPIO.JackActiveLow,
		ModulePowerLine:      sc.GPIO.ModulePowerLine,
		ModuleResetLine:      sc.GPIO.ModuleResetLine,
		AmpMuteLine:          sc.GPIO.AmpMuteLine,
		AudioPathLine:        sc.GPIO.AudioPathLine,
		CompanionVersionFile: sc.GPIO.CompanionVersionFile,
	})
	if err != nil {
		log.Fatalf("board open failed: %v", err)
	}
	defer brd.Close()

	transport, err := serial.New(serial.Config{
		Port: sc.Serial.Port,
		Baud: sc.Serial.Baud,
	})
	if err != nil {
		log.Fatalf("transport build failed: %v", err)
	}

	// --------------------
	// Build the supervisor worker
	// --------------------

	store := status.NewStore()
	sup := conn.New(conn.Options{
		Settle:            time.Duration(sc.Timings.SettleMs) * time.Millisecond,
		IdleOffAfter:      time.Duration(sc.Timings.IdleOffMinutes) * time.Minute,
		PreOffDelay:       time.Duration(sc.Timings.PreOffDelayMs) * time.Millisecond,
		OffConfirmTimeout: time.Duration(sc.Timings.OffConfirmTimeoutMs) * time.Millisecond,
		CuesEnabled:       *sc.CuesEnabled,
	}, conn.SystemClock, transport, brd, &systemSink{board: brd}, store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// First message the worker sees: bring the module up.
	sup.Post(conn.SetPowerPhase{Phase: conn.PhaseOn})

	log.Printf("supervisor running on %s", sc.Serial.Port)
	sup.Run(ctx)
	log.Printf("shutting down")
}

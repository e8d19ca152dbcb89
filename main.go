// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"

	"board-scope/ingest"
)

func main() {
	// Flag resolution
	portName := flag.String("port", "", "Serial port name (overrides config file)")
	baud := flag.Int("baud", 0, "Serial port baud rate (overrides config file)")
	configPath := flag.String("config", "", "YAML config file path")
	captureDir := flag.String("capture-dir", "", "Directory for raw record capture files (empty disables capture)")
	useTUI := flag.Bool("tui", false, "Show the live board visualization instead of console output")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			slog.Error("Config error", "path", *configPath, "error", err)
			return
		}
	}
	if *portName != "" {
		cfg.Port = *portName
	}
	if *baud > 0 {
		cfg.BaudRate = *baud
	}

	tran, err := ingest.OpenSerial(cfg.Port, cfg.BaudRate)
	if err != nil {
		slog.Error("Failed to open serial port", "port", cfg.Port, "baud", cfg.BaudRate, "error", err)
		return
	}
	defer tran.Close()

	parser := ingest.NewRecordParser(cfg.DiagnosticPrefixes)

	var capture *rawCapture
	if *captureDir != "" {
		capture = newRawCapture(*captureDir)
		defer capture.Close()
	}

	if *useTUI {
		runBoardView(cfg, tran, parser, capture)
	} else {
		runConsole(tran, parser, capture)
	}
	slog.Info("Serial connection closed")
}

// runConsole drives the poll loop on the main goroutine until interrupted.
func runConsole(tran ingest.Transport, parser *ingest.RecordParser, capture *rawCapture) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loop := ingest.NewPollLoop(tran, parser, &consoleSink{out: os.Stdout})
	if capture != nil {
		loop.OnRecord = capture.AddRecord
	}

	if err := loop.Run(ctx); err != nil {
		slog.Error("Ingestion stopped", "error", err)
	}
}

// runBoardView runs the poll loop in a goroutine feeding VisualizationState
// while Bubble Tea renders snapshots on its own tick.
func runBoardView(cfg Config, tran ingest.Transport, parser *ingest.RecordParser, capture *rawCapture) {
	state := ingest.NewVisualizationState(cfg.TrailCapacity)
	loop := ingest.NewPollLoop(tran, parser, state)
	if capture != nil {
		loop.OnRecord = capture.AddRecord
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(newBoardModel(cfg, state, loop), tea.WithAltScreen())
	go func() {
		if err := loop.Run(ctx); err != nil {
			p.Send(loopFailedMsg{err: err})
		}
	}()

	final, err := p.Run()
	if err != nil {
		slog.Error("Visualization error", "error", err)
		return
	}
	if m, ok := final.(boardModel); ok && m.loopErr != nil {
		slog.Error("Ingestion stopped", "error", m.loopErr)
	}
}

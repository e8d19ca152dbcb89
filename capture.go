// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// rawCapture appends every assembled record to a per-session file, exactly
// as it came off the wire. Purely a debugging aid; a capture failure must
// never disturb ingestion, so all errors are logged and swallowed.
type rawCapture struct {
	file *os.File
}

func newRawCapture(captureDir string) *rawCapture {
	rc := &rawCapture{}

	if err := os.MkdirAll(captureDir, 0755); err != nil {
		slog.Error("Failed to create capture directory", "dir", captureDir, "error", err)
		return rc
	}

	filename := rc.findNextFileName(captureDir, time.Now())
	if filename == "" {
		slog.Error("Failed to read capture directory, continuing without capture file", "dir", captureDir)
		return rc
	}

	path := filepath.Join(captureDir, filename)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		slog.Error("Failed to create capture file", "path", path, "error", err)
		return rc
	}

	rc.file = file
	slog.Info("Created capture file", "path", path)

	return rc
}

// findNextFileName scans the capture directory for existing session files
// and returns the next available filename for today.
func (rc *rawCapture) findNextFileName(captureDir string, now time.Time) string {
	today := now.Format("2006-01-02")

	entries, err := os.ReadDir(captureDir)
	if err != nil {
		return ""
	}
	// Pattern to match: YYYY-MM-DD-sessN-board.txt
	pattern := regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-sess(\d+)-board\.txt$`)
	maxSession := -1

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matches := pattern.FindStringSubmatch(entry.Name())
		if len(matches) == 3 && matches[1] == today {
			sessionNum, err := strconv.Atoi(matches[2])
			if err == nil && sessionNum > maxSession {
				maxSession = sessionNum
			}
		}
	}

	return fmt.Sprintf("%s-sess%d-board.txt", today, maxSession+1)
}

func (rc *rawCapture) AddRecord(record string) {
	if rc.file == nil {
		return
	}

	line := fmt.Sprintf("%s %s\n", time.Now().Local().Format("2006-01-02 15:04:05.000-07:00"), record)
	if _, err := rc.file.WriteString(line); err != nil {
		slog.Error("Failed to write to capture file", "error", err)
	}
}

func (rc *rawCapture) Close() {
	if rc.file == nil {
		return
	}

	rc.file.Close()
	rc.file = nil
}

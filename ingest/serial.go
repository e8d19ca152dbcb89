// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package ingest

import (
	"log/slog"
	"sync"

	"go.bug.st/serial"
)

// serialTransport adapts a blocking serial.Port to the non-blocking
// Transport contract. A pump goroutine services the port and appends into
// an internal buffer; Available/ReadChunk only touch that buffer, so the
// poll loop never blocks on the device.
type serialTransport struct {
	port serial.Port

	mu  sync.Mutex
	buf []byte
	err error // sticky read failure, reported once buf is drained
}

func OpenSerial(portName string, baud int) (Transport, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}
	slog.Info("Opened serial port", "port", portName, "baud", baud)

	st := &serialTransport{port: port}
	go st.pump()
	return st, nil
}

func (st *serialTransport) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := st.port.Read(buf)
		st.mu.Lock()
		if n > 0 {
			st.buf = append(st.buf, buf[:n]...)
		}
		if err != nil {
			st.err = err
			st.mu.Unlock()
			return
		}
		st.mu.Unlock()
	}
}

func (st *serialTransport) Available() (int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.buf) == 0 && st.err != nil {
		return 0, st.err
	}
	return len(st.buf), nil
}

func (st *serialTransport) ReadChunk(n int) ([]byte, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if n > len(st.buf) {
		n = len(st.buf)
	}
	if n == 0 {
		if st.err != nil {
			return nil, st.err
		}
		return nil, nil
	}
	chunk := make([]byte, n)
	copy(chunk, st.buf)
	st.buf = st.buf[n:]
	return chunk, nil
}

// DiscardInput drops both the OS-level backlog and anything the pump has
// already buffered.
func (st *serialTransport) DiscardInput() error {
	if err := st.port.ResetInputBuffer(); err != nil {
		return err
	}
	st.mu.Lock()
	st.buf = nil
	st.mu.Unlock()
	return nil
}

func (st *serialTransport) Close() error {
	// Closing the port unblocks the pump's pending Read.
	return st.port.Close()
}

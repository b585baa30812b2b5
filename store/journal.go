// Package store persists recorder activity: an append-only journal of
// stack events and a durable archive of captured snapshots.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/chazu/unwind/trace"
)

// ---------------------------------------------------------------------------
// Event journal
// ---------------------------------------------------------------------------

// EventKind classifies a journal entry.
type EventKind int

const (
	EventPush EventKind = iota
	EventPop
	EventCapture
	EventFail
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	switch k {
	case EventPush:
		return "push"
	case EventPop:
		return "pop"
	case EventCapture:
		return "capture"
	case EventFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Event is one journal entry. Frame is set for push events; Cause for
// fail events; Depth records the stack depth after the event.
type Event struct {
	Time  time.Time    `json:"time"`
	Kind  EventKind    `json:"kind"`
	Frame *trace.Frame `json:"frame,omitempty"`
	Cause string       `json:"cause,omitempty"`
	Depth int          `json:"depth"`
}

// Compression selects the journal's on-disk encoding.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
)

// ParseCompression maps a config string to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return CompressionNone, fmt.Errorf("store: unknown compression %q", s)
	}
}

// Journal appends stack events to a file as JSON lines, optionally
// behind a zstd stream. One Journal mirrors one Recorder's activity.
type Journal struct {
	file        *os.File
	bufWriter   *bufio.Writer
	writer      io.Writer
	compression Compression
}

// OpenJournal opens (creating if needed) a journal file for appending.
func OpenJournal(path string, compression Compression) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open journal: %w", err)
	}

	j := &Journal{
		file:        f,
		bufWriter:   bufio.NewWriter(f),
		compression: compression,
	}
	j.writer = j.bufWriter
	if compression == CompressionZstd {
		enc, err := zstd.NewWriter(j.bufWriter)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("store: zstd writer: %w", err)
		}
		j.writer = enc
	}
	return j, nil
}

// Record appends one event.
func (j *Journal) Record(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("store: marshal event: %w", err)
	}
	data = append(data, '\n')
	if _, err := j.writer.Write(data); err != nil {
		return fmt.Errorf("store: write event: %w", err)
	}
	return nil
}

// Attach subscribes the journal to a recorder's failures. Push and pop
// events still require explicit Record calls by the host runtime; the
// failure path is the one the recorder can observe on its own.
func (j *Journal) Attach(r *trace.Recorder) {
	r.OnFailure(func(cause error, snap *trace.Snapshot) {
		j.Record(Event{
			Time:  time.Now(),
			Kind:  EventFail,
			Cause: cause.Error(),
			Depth: snap.Len(),
		})
	})
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	if enc, ok := j.writer.(*zstd.Encoder); ok {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("store: close zstd stream: %w", err)
		}
	}
	if err := j.bufWriter.Flush(); err != nil {
		return fmt.Errorf("store: flush journal: %w", err)
	}
	return j.file.Close()
}

// ReadJournal reads back all events from a journal file. Lines that do
// not parse are skipped; a journal cut off mid-write should not make
// the rest unreadable.
func ReadJournal(path string, compression Compression) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open journal: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if compression == CompressionZstd {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("store: zstd reader: %w", err)
		}
		defer dec.Close()
		reader = dec
	}

	var events []Event
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("store: read journal: %w", err)
	}
	return events, nil
}

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chazu/unwind/store"
	"github.com/chazu/unwind/trace"
)

// runDemo simulates a small interpreted program failing three calls
// deep, journals the stack activity, and archives the failure snapshot
// so a fresh checkout has something to inspect.
func runDemo(archive *store.Archive, journalPath string, compression store.Compression) {
	journal, err := store.OpenJournal(journalPath, compression)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		os.Exit(1)
	}
	defer journal.Close()

	r := trace.NewRecorder()
	journal.Attach(r)

	var id string
	var captured *trace.Snapshot
	r.OnFailure(func(cause error, snap *trace.Snapshot) {
		captured = snap
		id, err = archive.Put(cause.Error(), snap)
	})

	// read_csv("flights.csv") -> parse_line(17) -> as_number("NA")
	callErr := recordedCall(r, journal, "read_csv", []any{"flights.csv"}, loc("demo.r", 1), func() error {
		return recordedCall(r, journal, "parse_line", []any{17}, loc("read.r", 24), func() error {
			return recordedCall(r, journal, "as_number", []any{"NA"}, loc("read.r", 31), func() error {
				return errors.New("invalid number: NA")
			})
		})
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error archiving snapshot: %v\n", err)
		os.Exit(1)
	}
	if callErr == nil || captured == nil {
		fmt.Fprintln(os.Stderr, "Demo failure did not produce a snapshot")
		os.Exit(1)
	}

	fmt.Printf("Archived snapshot %s:\n", id)
	captured.WriteTraceback(os.Stdout)
	fmt.Printf("\nInspect it with: unwind -i %s\n", id)
}

// recordedCall journals a push and pop around a recorded call.
func recordedCall(r *trace.Recorder, journal *store.Journal, name string, args []any, l *trace.Location, fn func() error) error {
	return r.Call(name, args, l, func() error {
		f, _ := r.Capture().Frame(0)
		journal.Record(store.Event{
			Time: time.Now(), Kind: store.EventPush, Frame: &f, Depth: r.Depth(),
		})
		err := fn()
		journal.Record(store.Event{
			Time: time.Now(), Kind: store.EventPop, Depth: r.Depth() - 1,
		})
		return err
	})
}

func loc(file string, line int) *trace.Location {
	return &trace.Location{File: file, Line: line}
}

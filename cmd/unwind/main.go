// Unwind CLI - records, archives, and inspects dynamic-language call stacks.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/unwind/manifest"
	"github.com/chazu/unwind/server"
	"github.com/chazu/unwind/store"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	interactive := flag.Bool("i", false, "Inspect a snapshot interactively")
	serveMode := flag.Bool("serve", false, "Start the HTTP inspection server")
	addr := flag.String("addr", "", "Server address (overrides unwind.toml)")
	archivePath := flag.String("archive", "", "Archive path (overrides unwind.toml)")
	listMode := flag.Bool("list", false, "List archived snapshots")
	demoMode := flag.Bool("demo", false, "Record a demonstration failure and archive its snapshot")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: unwind [options] [snapshot-id]\n\n")
		fmt.Fprintf(os.Stderr, "Inspects call-stack snapshots archived at a failure point.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  unwind -demo             # Archive a sample failure to play with\n")
		fmt.Fprintf(os.Stderr, "  unwind -list             # List archived snapshots\n")
		fmt.Fprintf(os.Stderr, "  unwind a1b2c3d4e5f6     # Print a snapshot's traceback\n")
		fmt.Fprintf(os.Stderr, "  unwind -i a1b2c3d4e5f6  # Browse its frames interactively\n")
		fmt.Fprintf(os.Stderr, "  unwind -serve            # Serve snapshots over HTTP on unwind.toml's addr\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	// unwind.toml is optional; flags override it, defaults fill the rest.
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading unwind.toml: %v\n", err)
		os.Exit(1)
	}

	dbPath := "snapshots.db"
	serverAddr := "localhost:4567"
	journalPath := "stack.journal"
	journalCompression := store.CompressionZstd
	if m != nil {
		dbPath = m.ArchivePath()
		serverAddr = m.Server.Addr
		journalPath = m.JournalPath()
		journalCompression, err = store.ParseCompression(m.Journal.Compression)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in unwind.toml: %v\n", err)
			os.Exit(1)
		}
	}
	if *archivePath != "" {
		dbPath = *archivePath
	}
	if *addr != "" {
		serverAddr = *addr
	}

	archive, err := store.OpenArchive(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening archive: %v\n", err)
		os.Exit(1)
	}
	defer archive.Close()

	switch {
	case *demoMode:
		runDemo(archive, journalPath, journalCompression)

	case *listMode:
		listSnapshots(archive)

	case *serveMode:
		srv := server.New(archive)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}

	case *interactive:
		if flag.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: unwind -i <snapshot-id>")
			os.Exit(1)
		}
		inspect(archive, flag.Arg(0))

	case flag.NArg() == 1:
		printTraceback(archive, flag.Arg(0))

	default:
		flag.Usage()
		os.Exit(1)
	}
}

func listSnapshots(archive *store.Archive) {
	metas, err := archive.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing snapshots: %v\n", err)
		os.Exit(1)
	}
	if len(metas) == 0 {
		fmt.Println("No archived snapshots. Try: unwind -demo")
		return
	}
	for _, meta := range metas {
		fmt.Printf("%s  %2d frames  %s  %s\n",
			meta.ID, meta.Frames, meta.CreatedAt.Format("2006-01-02 15:04:05"), meta.Label)
	}
}

func printTraceback(archive *store.Archive, id string) {
	snap, err := archive.Get(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	snap.WriteTraceback(os.Stdout)
}

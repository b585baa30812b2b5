package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/unwind/session"
	"github.com/chazu/unwind/store"
)

// inspect runs the interactive frame browser over an archived snapshot.
func inspect(archive *store.Archive, id string) {
	snap, err := archive.Get(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sess, err := session.NewStore().Create(id, snap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Inspecting snapshot %s (%d frames). Type 'help' for commands.\n", id, snap.Len())
	sess.Where(os.Stdout)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("unwind> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "where", "w":
			sess.Where(os.Stdout)

		case "up", "u":
			if err := sess.Up(); err != nil {
				fmt.Println("Already at the program entry")
				continue
			}
			fmt.Println(sess.Current().String())

		case "down", "d":
			if err := sess.Down(); err != nil {
				fmt.Println("Already at the innermost frame")
				continue
			}
			fmt.Println(sess.Current().String())

		case "frame", "f":
			if len(fields) != 2 {
				fmt.Println("Usage: frame <n>")
				continue
			}
			n, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				fmt.Println("Usage: frame <n>")
				continue
			}
			// The traceback numbers frames from the program entry,
			// so translate to the snapshot's innermost-first index.
			if err := sess.Select(snap.Len() - n); err != nil {
				fmt.Printf("No frame %d\n", n)
				continue
			}
			fmt.Println(sess.Current().String())

		case "args", "a":
			args := sess.Args()
			if len(args) == 0 {
				fmt.Println("No arguments")
				continue
			}
			for i, a := range args {
				fmt.Printf("  [%d] %s\n", i+1, a)
			}

		case "help", "h", "?":
			fmt.Println("Commands:")
			fmt.Println("  where        Show the traceback with the current frame marked")
			fmt.Println("  up / down    Move toward the program entry / the failure point")
			fmt.Println("  frame <n>    Jump to the frame numbered <n> in the traceback")
			fmt.Println("  args         Show the current frame's argument values")
			fmt.Println("  quit         Leave the inspector")

		case "quit", "q", "exit":
			return

		default:
			fmt.Printf("Unknown command %q (try 'help')\n", fields[0])
		}
	}
}

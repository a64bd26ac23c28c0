package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/plugin-runtime/runtime"
	"github.com/wippyai/plugin-runtime/store"
)

func main() {
	var (
		inFile      = flag.String("in", "", "Path to JSON input file (- for stdin)")
		arenaSize   = flag.Int("arena", runtime.DefaultArenaSize, "Arena size in bytes")
		verbose     = flag.Bool("v", false, "Enable debug logging")
		stats       = flag.Bool("stats", false, "Print value store statistics")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		runtime.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(*arenaSize); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -in <file.json>  (- for stdin)")
		fmt.Fprintln(os.Stderr, "       run -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*inFile, *arenaSize, *stats); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inFile string, arenaSize int, showStats bool) error {
	var (
		doc []byte
		err error
	)
	if inFile == "-" {
		doc, err = io.ReadAll(os.Stdin)
	} else {
		doc, err = os.ReadFile(inFile)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	st := store.New()
	rt := runtime.New(st, runtime.WithArenaSize(arenaSize))

	root, err := rt.FromJSON(doc)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	out, err := rt.ToJSON(root)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	fmt.Printf("%s\n", st.StringBytes(out))

	for _, w := range st.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if showStats {
		fmt.Fprintf(os.Stderr, "\nValues: %d\n", st.Len())
		fmt.Fprintf(os.Stderr, "Root type: %s\n", st.TypeOf(root))
		fmt.Fprintf(os.Stderr, "Arena used: %d of %d bytes\n", rt.Arena().Offset(), rt.Arena().Cap())
	}

	return nil
}

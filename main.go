package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/bentduso/eex/internal/eex"
	"github.com/bentduso/eex/internal/workspace"
)

var (
	trim   = kingpin.Flag("trim", "Strip whitespace-only lines surrounding fragments").Bool()
	format = kingpin.Flag("format", "Output format: text or json").Default("text").Enum("text", "json")
	watch  = kingpin.Flag("watch", "Watch files for changes and re-tokenize automatically").Short('w').Bool()
	files  = kingpin.Arg("files", "List of files to tokenize").Required().ExistingFiles()

	eexOpts eex.Options
)

func main() {
	kingpin.Parse()

	eexOpts = eex.Options{Trim: *trim}

	if *watch {
		if err := watchFiles(); err != nil {
			kingpin.Fatalf("failed to watch files: %s", err)
		}
	} else {
		if err := dumpAll(); err != nil {
			kingpin.Fatalf("failed to tokenize files: %s", err)
		}
	}
}

func dumpAll() error {
	wd, _ := os.Getwd()
	ws := workspace.New(wd, eexOpts)

	for _, fname := range *files {
		if err := dumpFile(ws, fname); err != nil {
			return fmt.Errorf("load file %q: %w", fname, err)
		}
	}

	return nil
}

func dumpFile(ws *workspace.Workspace, fname string) error {
	toks, err := ws.Load(fname)
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(toks)
	default:
		for _, tk := range toks {
			fmt.Printf("%4d %-10s %q\n", tk.Line, tk.Kind, tk.Contents)
		}
		return nil
	}
}

func watchFiles() error {
	watcher, err := NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	for _, f := range *files {
		if err := watcher.WatchFile(f); err != nil {
			return fmt.Errorf("watch file %q: %w", f, err)
		}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	log.Println("watching files for changes...")

	<-ch
	return nil
}

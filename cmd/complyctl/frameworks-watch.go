package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doracomply/doracomply/pkg/scoring"
)

// frameworksWatchCmd represents the frameworks watch command
var frameworksWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a mappings file and reload frameworks when it changes",
	Long: `Watch a framework mappings file and reload it when it changes.

Each time the file is written the registry is reloaded from it, so mapping
edits can be iterated on against a running "complyctl score" loop without
restarting anything.

Example:
  complyctl frameworks watch mappings.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchFrameworks(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch frameworks file: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	frameworksCmd.AddCommand(frameworksWatchCmd)
}

func watchFrameworks(filename string) error {
	registry := scoring.DefaultRegistry
	if err := registry.LoadOverrides(filename); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for framework mapping changes\n", filename)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, reloading frameworks...\n", time.Now().Format(time.RFC3339))

				if err := registry.LoadOverrides(filename); err != nil {
					fmt.Fprintf(os.Stderr, "Error reloading frameworks: %v\n", err)
					continue
				}

				fmt.Printf("Loaded %d frameworks\n", len(registry.List()))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/recera/lunk/internal/scenario"
	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <scenario.yaml>",
		Short: "Re-run a scenario file's demo every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0])
		},
	}
	return cmd
}

func runWatch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	fmt.Println(dimStyle.Render(fmt.Sprintf("watching %s — save the file to re-run, ctrl-c to stop", path)))
	runOnce(path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fmt.Println()
				runOnce(path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, dimStyle.Render(fmt.Sprintf("watch error: %v", err)))
		}
	}
}

func runOnce(path string) {
	s, err := scenario.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, dimStyle.Render(fmt.Sprintf("reload failed: %v", err)))
		return
	}
	if err := runDemo(s, true); err != nil {
		fmt.Fprintln(os.Stderr, dimStyle.Render(fmt.Sprintf("run failed: %v", err)))
	}
}

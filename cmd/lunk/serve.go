package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recera/lunk/internal/scenario"
	"github.com/recera/lunk/pkg/livetrace"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var file string
	var addr string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve [builtin-name]",
		Short: "Run a scenario and stream its pass/activation trace to connected WebSocket inspectors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenarioArg(file, args)
			if err != nil {
				return err
			}
			return runServe(s, addr, interval)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a scenario YAML file (overrides the builtin-name argument)")
	cmd.Flags().StringVar(&addr, "addr", ":8089", "address to listen on")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "delay between scripted events")
	return cmd
}

func runServe(s *scenario.Scenario, addr string, interval time.Duration) error {
	g, err := scenario.Build(s)
	if err != nil {
		return err
	}

	srv := livetrace.NewServer()
	g.EG.Observe(srv)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.HandleWebSocket)
	httpSrv := &http.Server{Addr: addr, Handler: mux}

	log.Printf("[lunk] serving %q, inspectors connect at ws://%s/ws", s.Name, addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("[lunk] shutting down live trace server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(ctx)
	}()

	go runScript(g, s, srv, interval)

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// runScript replays s's scripted events against g, one per interval tick,
// pushing a fresh graph snapshot to every connected inspector after the
// initial state and after each event.
func runScript(g *scenario.Graph, s *scenario.Scenario, srv *livetrace.Server, interval time.Duration) {
	srv.SendSnapshot(g.Registry.Snapshot())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for _, ev := range s.Events {
		<-ticker.C
		scenario.ApplyEvent(g, ev)
		srv.SendSnapshot(g.Registry.Snapshot())
	}
}

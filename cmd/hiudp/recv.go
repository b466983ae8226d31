// File: cmd/hiudp/recv.go
// Author: momentics <momentics@gmail.com>

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-udp/api"
	"github.com/momentics/hioload-udp/endpoint"
)

var recvCmd = &cobra.Command{
	Use:   "recv ENDPOINT",
	Short: "Receive message pairs from a UDP endpoint",
	Long: `Recv binds the endpoint (joining the group for multicast endpoints)
and prints every received pair, one per line, until interrupted.
In raw mode the group column shows the sender's address.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(args[0], false, true)
		if err != nil {
			return err
		}
		ep, err := endpoint.Open(cfg)
		if err != nil {
			return err
		}
		defer ep.Close()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			ep.Close()
		}()

		groupColor := color.New(color.FgCyan, color.Bold)
		for {
			group, body, err := ep.Recv()
			if err == api.ErrEngineClosed {
				return nil
			}
			if err != nil {
				return err
			}
			groupColor.Print(string(group))
			color.New(color.Faint).Print(" | ")
			os.Stdout.Write(body)
			os.Stdout.Write([]byte("\n"))
		}
	},
}

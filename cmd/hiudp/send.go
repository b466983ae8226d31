// File: cmd/hiudp/send.go
// Author: momentics <momentics@gmail.com>

package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/momentics/hioload-udp/api"
	"github.com/momentics/hioload-udp/endpoint"
)

var sendCmd = &cobra.Command{
	Use:   "send ENDPOINT GROUP [BODY...]",
	Short: "Send message pairs to a UDP endpoint",
	Long: `Send transmits one datagram per BODY argument, each framed with GROUP.
With no BODY arguments, lines from standard input are sent instead.
In raw mode GROUP is the "host:port" destination.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(args[0], true, false)
		if err != nil {
			return err
		}
		ep, err := endpoint.Open(cfg)
		if err != nil {
			return err
		}
		defer ep.Close()

		group := []byte(args[1])
		if len(args) > 2 {
			for _, body := range args[2:] {
				if err := sendOne(ep, group, []byte(body)); err != nil {
					return err
				}
			}
		} else {
			sc := bufio.NewScanner(os.Stdin)
			for sc.Scan() {
				if err := sendOne(ep, group, sc.Bytes()); err != nil {
					return err
				}
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
		}

		// Give the dispatch loop a moment to flush the pipe; datagrams
		// queued behind a full socket are lost once we close.
		time.Sleep(20 * time.Millisecond)
		return nil
	},
}

// sendOne queues one pair, retrying briefly on a full pipe.
func sendOne(ep *endpoint.Endpoint, group, body []byte) error {
	for {
		err := ep.Send(group, body)
		if err != api.ErrPipeFull {
			return err
		}
		time.Sleep(time.Millisecond)
	}
}

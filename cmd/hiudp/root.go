// File: cmd/hiudp/root.go
// Author: momentics <momentics@gmail.com>

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagRaw      bool
	flagDevice   string
	flagLoopback bool
	flagHWM      int
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "hiudp",
	Short: "Send and receive multi-part messages over UDP endpoints",
	Long: `hiudp drives hioload-udp datagram endpoints from the command line.

Endpoints are "host:port" or, for multicast with an explicit interface,
"iface;group:port". Raw-socket mode carries the destination address in
the message content instead of framing a group field.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "YAML config file")
	pf.BoolVar(&flagRaw, "raw", false, "raw-socket mode")
	pf.StringVar(&flagDevice, "device", "", "bind socket to a network device")
	pf.BoolVar(&flagLoopback, "loopback", true, "multicast loopback")
	pf.IntVar(&flagHWM, "hwm", 1024, "session pipe high-water mark")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(recvCmd)
}

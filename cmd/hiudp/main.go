// File: cmd/hiudp/main.go
// Author: momentics <momentics@gmail.com>
//
// hiudp is a command-line sender/receiver for hioload-udp endpoints.

package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

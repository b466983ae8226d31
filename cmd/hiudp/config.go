// File: cmd/hiudp/config.go
// Author: momentics <momentics@gmail.com>
//
// Optional YAML configuration file; flags override file values.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-udp/endpoint"
)

// fileConfig mirrors the endpoint options configurable from a file.
type fileConfig struct {
	RawSocket     bool   `yaml:"raw_socket"`
	BoundDevice   string `yaml:"bound_device"`
	MulticastLoop *bool  `yaml:"multicast_loop"`
	PipeHWM       int    `yaml:"pipe_hwm"`
}

// buildConfig merges the config file (if any) with command-line flags
// into an endpoint configuration.
func buildConfig(endpointStr string, send, recv bool) (*endpoint.Config, error) {
	cfg := &endpoint.Config{
		Endpoint:      endpointStr,
		Send:          send,
		Recv:          recv,
		RawSocket:     flagRaw,
		BoundDevice:   flagDevice,
		MulticastLoop: flagLoopback,
		PipeHWM:       flagHWM,
	}

	if flagConfig == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", flagConfig, err)
	}

	if fc.RawSocket {
		cfg.RawSocket = true
	}
	if fc.BoundDevice != "" {
		cfg.BoundDevice = fc.BoundDevice
	}
	if fc.MulticastLoop != nil {
		cfg.MulticastLoop = *fc.MulticastLoop
	}
	if fc.PipeHWM > 0 {
		cfg.PipeHWM = fc.PipeHWM
	}
	return cfg, nil
}

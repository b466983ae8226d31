// File: endpoint/endpoint.go
// Unified facade for the hioload-udp library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Endpoint aggregates the poller, the session pipes and the datagram
// engine behind one object, and bridges the engine's cooperative
// single-goroutine world to ordinary blocking Go callers.

package endpoint

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-udp/addr"
	"github.com/momentics/hioload-udp/api"
	"github.com/momentics/hioload-udp/engine"
	"github.com/momentics/hioload-udp/internal/session"
	"github.com/momentics/hioload-udp/reactor"
)

var log = logrus.WithField("module", "hioload-udp/endpoint")

// Config holds parameters immutable per endpoint.
type Config struct {
	// Endpoint is the UDP endpoint string, "host:port" or
	// "iface;group:port" for multicast with an explicit interface.
	Endpoint string

	Send bool // enable the send direction
	Recv bool // enable the receive direction

	RawSocket     bool   // raw-socket mode (addresses in message content)
	BoundDevice   string // optional network device to bind
	MulticastLoop bool   // loop multicast sends back to the local host

	PipeHWM int // session pipe high-water mark, in message parts
}

// DefaultConfig returns the default endpoint configuration.
func DefaultConfig() *Config {
	return &Config{
		Send:          true,
		Recv:          true,
		MulticastLoop: true,
		PipeHWM:       1024,
	}
}

// Endpoint owns one engine, its session and the poller dispatching it.
type Endpoint struct {
	cfg    Config
	poller *reactor.Poller
	sess   *session.Session
	eng    *engine.Engine

	runDone   chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Open resolves the configured endpoint, wires engine, session and
// poller together and starts the dispatch loop.
func Open(cfg *Config) (*Endpoint, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Send && !cfg.Recv {
		return nil, fmt.Errorf("endpoint: at least one of Send and Recv must be enabled")
	}
	hwm := cfg.PipeHWM
	if hwm <= 0 {
		hwm = DefaultConfig().PipeHWM
	}

	resolved, err := addr.Resolve(cfg.Endpoint, cfg.Recv)
	if err != nil {
		return nil, err
	}

	eng := engine.New(engine.Options{
		RawSocket:     cfg.RawSocket,
		BoundDevice:   cfg.BoundDevice,
		MulticastLoop: cfg.MulticastLoop,
	})
	if err := eng.Init(resolved, cfg.Send, cfg.Recv); err != nil {
		return nil, err
	}

	poller, err := reactor.NewPoller()
	if err != nil {
		_ = eng.Close()
		return nil, err
	}

	sess := session.New(hwm)
	if err := eng.Plug(poller, sess); err != nil {
		_ = poller.Close()
		_ = eng.Close()
		return nil, err
	}

	ep := &Endpoint{
		cfg:     *cfg,
		poller:  poller,
		sess:    sess,
		eng:     eng,
		runDone: make(chan struct{}),
		closed:  make(chan struct{}),
	}
	go func() {
		defer close(ep.runDone)
		if err := poller.Run(); err != nil {
			log.WithError(err).Error("poller loop failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"endpoint": cfg.Endpoint,
		"session":  sess.ID(),
	}).Info("endpoint open")
	return ep, nil
}

// Send queues one group/body pair for transmission. It does not block:
// a full outbound pipe returns api.ErrPipeFull.
func (ep *Endpoint) Send(group, body []byte) error {
	select {
	case <-ep.closed:
		return api.ErrEngineClosed
	default:
	}
	// The pipes hold the slices after Send returns; copy so callers can
	// reuse their buffers.
	if err := ep.sess.Send(cloneBytes(group), cloneBytes(body)); err != nil {
		return err
	}
	ep.poller.Submit(ep.eng.RestartOutput)
	return nil
}

// Recv blocks until one group/body pair is available or the endpoint is
// closed.
func (ep *Endpoint) Recv() (group, body []byte, err error) {
	for {
		g, b, wasFull, rerr := ep.sess.Recv()
		if rerr == nil {
			if wasFull {
				// The engine paused reads at the high-water mark;
				// capacity is back now.
				ep.poller.Submit(ep.eng.RestartInput)
			}
			return g.Data, b.Data, nil
		}
		select {
		case <-ep.sess.InSignal():
		case <-ep.closed:
			return nil, nil, api.ErrEngineClosed
		}
	}
}

// TryRecv is the non-blocking variant of Recv; it returns
// api.ErrPipeEmpty when nothing is queued.
func (ep *Endpoint) TryRecv() (group, body []byte, err error) {
	g, b, wasFull, rerr := ep.sess.Recv()
	if rerr != nil {
		return nil, nil, rerr
	}
	if wasFull {
		ep.poller.Submit(ep.eng.RestartInput)
	}
	return g.Data, b.Data, nil
}

// LocalPort reports the engine's bound port, useful with ":0" binds.
func (ep *Endpoint) LocalPort() (uint16, error) {
	return ep.eng.LocalPort()
}

// SessionID returns the session identifier for diagnostics.
func (ep *Endpoint) SessionID() string { return ep.sess.ID() }

// Close stops the dispatch loop, detaches the engine and releases the
// socket. Safe to call more than once.
func (ep *Endpoint) Close() error {
	ep.closeOnce.Do(func() {
		close(ep.closed)
		_ = ep.poller.Close()
		<-ep.runDone
		// The loop has exited: engine calls are no longer concurrent.
		ep.eng.Terminate()
		ep.closeErr = ep.eng.Close()
		log.WithField("session", ep.sess.ID()).Info("endpoint closed")
	})
	return ep.closeErr
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

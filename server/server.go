// File: server/server.go
// Author: momentics <momentics@gmail.com>
//
// Server construction and the named-endpoint registry.

package server

import (
	"fmt"
	"net"
	"sort"
	"time"

	"github.com/eapache/queue"
	"github.com/momentics/udpev/api"
	"github.com/momentics/udpev/cron"
	"github.com/momentics/udpev/internal/transport"
	"github.com/momentics/udpev/reactor"
	"github.com/momentics/udpev/timer"
)

// endpoint is one bound UDP socket registered under a caller name.
type endpoint struct {
	name    int
	fd      int
	addr    *net.UDPAddr
	created time.Time
	handler api.PacketHandler
}

// EndpointInfo is a diagnostic snapshot of one open endpoint.
type EndpointInfo struct {
	Name    int
	Addr    string
	Created time.Time
}

// Server aggregates the socket registry, cron scheduler, timer engine
// and the event loop state.
type Server struct {
	cfg     config
	rct     reactor.EventReactor
	eps     map[int]*endpoint
	engine  *timer.Engine
	crontab *cron.Scheduler
	ready   *queue.Queue // reactor events pending dispatch

	readBuf []byte // shared receive buffer, reused across dispatches

	// wake pipe: Exit/ExitLater write one byte to interrupt a blocked wait
	wakeR, wakeW int

	running  atomicFlag
	exitReq  atomicFlag
	exitAtNs atomicTime
}

// New constructs a server with an empty registry.
func New(opts ...Option) (*Server, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	rct, err := reactor.NewReactor()
	if err != nil {
		return nil, err
	}
	wakeR, wakeW, err := transport.Pipe()
	if err != nil {
		rct.Close()
		return nil, err
	}
	if err := rct.Register(wakeR, 0); err != nil {
		rct.Close()
		transport.Close(wakeR)
		transport.Close(wakeW)
		return nil, err
	}
	return &Server{
		cfg:     cfg,
		rct:     rct,
		eps:     make(map[int]*endpoint),
		engine:  timer.NewEngine(),
		crontab: cron.NewScheduler(),
		ready:   queue.New(),
		readBuf: make([]byte, api.MaxPacket),
		wakeR:   wakeR,
		wakeW:   wakeW,
	}, nil
}

// Open binds a UDP socket to ip:port (empty ip means wildcard) and
// registers handler under name. The name must be free and the port
// explicit; port 0 is reserved for the client path. The endpoint
// receives dispatch starting with the next readiness check.
func (s *Server) Open(name int, ip string, port int, handler api.PacketHandler) error {
	if handler == nil {
		return fmt.Errorf("open %d: nil handler: %w", name, api.ErrInvalidArgument)
	}
	if port == 0 {
		return fmt.Errorf("open %d: server bind requires an explicit port: %w", name, api.ErrInvalidArgument)
	}
	if _, dup := s.eps[name]; dup {
		return fmt.Errorf("open %d: name already registered: %w", name, api.ErrInvalidArgument)
	}
	fd, addr, err := transport.Open(ip, port)
	if err != nil {
		return fmt.Errorf("open %d: %w", name, err)
	}
	if err := s.rct.Register(fd, name); err != nil {
		transport.Close(fd)
		return fmt.Errorf("open %d: %w", name, err)
	}
	s.eps[name] = &endpoint{
		name:    name,
		fd:      fd,
		addr:    addr,
		created: time.Now(),
		handler: handler,
	}
	s.logf(api.LogInfo, "endpoint %d open on %s", name, addr)
	return nil
}

// Send writes one datagram through the named endpoint.
func (s *Server) Send(name int, addr *net.UDPAddr, payload []byte) error {
	ep, ok := s.eps[name]
	if !ok {
		return fmt.Errorf("send %d: %w", name, api.ErrNotFound)
	}
	return transport.SendTo(ep.fd, addr, payload)
}

// Close releases the named endpoint. The name is free for reuse
// immediately; queued readiness for the old socket is discarded.
func (s *Server) Close(name int) error {
	ep, ok := s.eps[name]
	if !ok {
		return fmt.Errorf("close %d: %w", name, api.ErrNotFound)
	}
	delete(s.eps, name)
	if err := s.rct.Unregister(ep.fd); err != nil {
		s.logf(api.LogWarn, "close %d: %v", name, err)
	}
	err := transport.Close(ep.fd)
	s.logf(api.LogInfo, "endpoint %d closed", name)
	return err
}

// Endpoints returns a snapshot of the open endpoints, ordered by name.
func (s *Server) Endpoints() []EndpointInfo {
	out := make([]EndpointInfo, 0, len(s.eps))
	for _, ep := range s.eps {
		out = append(out, EndpointInfo{
			Name:    ep.name,
			Addr:    ep.addr.String(),
			Created: ep.created,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Trace dumps every open endpoint through the log sink.
func (s *Server) Trace() {
	for _, info := range s.Endpoints() {
		s.logf(api.LogInfo, "trace: endpoint %d addr %s created %s",
			info.Name, info.Addr, info.Created.Format(time.RFC3339))
	}
}

// NewTimer creates a session timer driven by the server's loop.
func (s *Server) NewTimer(timeout time.Duration, sessionSize int, onExpire api.ExpireFunc) (*timer.Timer, error) {
	return s.engine.NewTimer(timeout, sessionSize, onExpire)
}

// Engine exposes the session engine for Get/Delete/reverse lookups.
func (s *Server) Engine() *timer.Engine {
	return s.engine
}

// Cron registers fn to fire every interval on the loop thread.
func (s *Server) Cron(interval time.Duration, fn api.CronFunc) error {
	return s.crontab.Schedule(interval, fn)
}

// Shutdown closes every endpoint, the reactor and the wake pipe. The
// server must not be running.
func (s *Server) Shutdown() error {
	if s.running.isSet() {
		return api.ErrLoopRunning
	}
	var first error
	for name := range s.eps {
		if err := s.Close(name); err != nil && first == nil {
			first = err
		}
	}
	if err := s.rct.Close(); err != nil && first == nil {
		first = err
	}
	transport.Close(s.wakeR)
	transport.Close(s.wakeW)
	return first
}

func (s *Server) logf(level api.LogLevel, format string, args ...any) {
	if s.cfg.sink == nil {
		return
	}
	s.cfg.sink(level, fmt.Sprintf(format, args...))
}

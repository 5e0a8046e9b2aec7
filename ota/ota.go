// Package ota sequences the over-the-air update service: it registers once
// the network has an address and defers with retries when it does not.
package ota

import (
	"heaterctl-go/logx"
	"heaterctl-go/types"
)

const retryIntervalMs = 1000

// Network reports address availability.
type Network interface {
	HasIP() bool
}

// Naming supplies the advertised hostname.
type Naming interface {
	DeviceName() string
}

// Uptime supplies milliseconds since boot.
type Uptime interface {
	UptimeMs() uint64
}

type Starter struct {
	svc types.OTA
	cfg Naming
	net Network
	clk Uptime
	log *logx.Logger

	started     bool
	pending     bool
	lastAttempt uint64
}

func New(svc types.OTA, cfg Naming, net Network, clk Uptime, log *logx.Logger) *Starter {
	return &Starter{svc: svc, cfg: cfg, net: net, clk: clk, log: log}
}

// Begin starts the service now if the network is up, otherwise arms the
// deferred path so Tick keeps retrying.
func (s *Starter) Begin(enable bool) {
	if !enable {
		return
	}
	if s.net.HasIP() {
		s.start()
		return
	}
	s.pending = true
	s.lastAttempt = 0
	s.log.Infof("ota: no address yet, start deferred")
}

func (s *Starter) Started() bool { return s.started }

// Tick retries a deferred start once per retry interval and drives the
// service once it runs.
func (s *Starter) Tick() {
	if s.pending {
		now := s.clk.UptimeMs()
		if now-s.lastAttempt >= retryIntervalMs {
			s.lastAttempt = now
			if s.net.HasIP() {
				s.start()
			}
		}
	}
	if s.started {
		s.svc.Handle()
	}
}

func (s *Starter) Stop() {
	if !s.started {
		s.pending = false
		return
	}
	s.svc.Stop()
	s.started = false
	s.pending = false
}

func (s *Starter) start() {
	s.pending = false
	if name := s.cfg.DeviceName(); name != "" {
		s.svc.SetHostname(name)
	}
	err := s.svc.Begin(types.OTACallbacks{
		OnStart: func() { s.log.Infof("ota: update starting") },
		OnEnd:   func() { s.log.Infof("ota: update complete") },
		OnProgress: func(cur, total uint32) {
			if total > 0 {
				s.log.Debugf("ota: %d%%", cur*100/total)
			}
		},
		OnError: func(err error) { s.log.Errorf("ota: %v", err) },
	})
	if err != nil {
		s.log.Errorf("ota: begin failed: %v", err)
		return
	}
	s.started = true
	s.log.Infof("ota: ready")
}

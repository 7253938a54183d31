// Package core wires a cpu.CPU into a goroutine-driven run loop: a clock
// that repeatedly calls Cycle, a command channel for reset/run/stop/IRQ
// requests from outside the goroutine, and a shutdown handshake built
// around a narrow Reset/Run/Stop/IRQ command set.
package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rv32ucore/rv32ucore/cpu"
)

// CommandKind selects the action a Command requests of the run loop.
type CommandKind int

const (
	// CmdRun starts or resumes macro-instruction execution.
	CmdRun CommandKind = iota
	// CmdStop halts macro-instruction execution without resetting state.
	CmdStop
	// CmdReset drives the wrapped core's synchronous reset.
	CmdReset
	// CmdIRQ sets or clears the external interrupt line.
	CmdIRQ
)

// Command is one request delivered to the run loop's Start goroutine.
type Command struct {
	Kind CommandKind
	IRQ  bool // valid only when Kind == CmdIRQ
}

// Core runs a cpu.CPU on its own goroutine, cycling it once per Start
// loop iteration while running is set, and idling otherwise.
type Core struct {
	wg      sync.WaitGroup
	done    chan struct{}
	cmd     chan Command
	running bool

	cpu *cpu.CPU
	log *slog.Logger
}

// New wraps c in a run loop. log may be nil to use slog's default logger.
func New(c *cpu.CPU, log *slog.Logger) *Core {
	if log == nil {
		log = slog.Default()
	}
	return &Core{
		cpu:  c,
		log:  log,
		done: make(chan struct{}),
		cmd:  make(chan Command, 8),
	}
}

// Start runs the core on the calling goroutine's caller: call it with
// `go core.Start()`. It returns once Stop's done signal is observed.
func (co *Core) Start() {
	co.wg.Add(1)
	defer co.wg.Done()
	for {
		if co.running {
			_, halted := co.cpu.Cycle()
			if halted {
				co.running = false
				co.log.Info("core halted")
			}
		}
		select {
		case <-co.done:
			co.log.Info("shutdown cpu core")
			return
		case c := <-co.cmd:
			co.processCommand(c)
		default:
			if !co.running {
				// Nothing to do until the next command; block on one
				// instead of busy-spinning.
				select {
				case <-co.done:
					co.log.Info("shutdown cpu core")
					return
				case c := <-co.cmd:
					co.processCommand(c)
				}
			}
		}
	}
}

// Stop signals the run loop to exit and waits up to a second for it.
func (co *Core) Stop() {
	close(co.done)
	done := make(chan struct{})
	go func() {
		co.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		co.log.Warn("timed out waiting for cpu core to finish")
		return
	}
}

// Run starts (or resumes) macro-instruction execution.
func (co *Core) Run() { co.cmd <- Command{Kind: CmdRun} }

// Halt stops macro-instruction execution without resetting state.
func (co *Core) Halt() { co.cmd <- Command{Kind: CmdStop} }

// Reset drives the wrapped core's synchronous reset.
func (co *Core) Reset() { co.cmd <- Command{Kind: CmdReset} }

// SetIRQ sets or clears the external interrupt line.
func (co *Core) SetIRQ(pending bool) { co.cmd <- Command{Kind: CmdIRQ, IRQ: pending} }

func (co *Core) processCommand(c Command) {
	switch c.Kind {
	case CmdRun:
		co.running = true
	case CmdStop:
		co.running = false
	case CmdReset:
		co.cpu.Reset()
		co.running = false
	case CmdIRQ:
		co.cpu.SetExternalIRQ(c.IRQ)
	}
}

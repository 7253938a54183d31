/*
 * rv32ucore - Run-time configuration options.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package runconfig registers the config lines this core understands:
// MEMSIZE, MTVEC, DEBUG, TRACEFILE and DEBUGFILE. The DEBUG dispatch is
// narrowed from a per-subsystem {CHANNEL, CPU, TAPE, device} table down
// to this core's {CPU, BUS} pair, TRACEFILE opens the RVFI JSON-lines
// sink file main.go hands to cpu.New, and DEBUGFILE redirects
// debug.Debugf output away from its stderr default.
package runconfig

import (
	"errors"
	"os"
	"strconv"
	"strings"

	config "github.com/rv32ucore/rv32ucore/config/configparser"
	"github.com/rv32ucore/rv32ucore/util/debug"
)

// CPUMask and BusMask hold the currently enabled debug trace mask for
// each subsystem (non-zero once a "DEBUG CPU ..."/"DEBUG BUS ..." line
// has been seen), consulted by cpu.SetDebugMask/bus.SetDebugMask.
var (
	CPUMask int
	BusMask int
)

// MemSize is the RAM size in bytes to back the bus target with, set by the
// MEMSIZE option and defaulting to 0 (caller picks a default) until set.
var MemSize uint64

// MtvecReset is the reset value of mtvec, set by the MTVEC option.
var MtvecReset uint32

// TraceFile is the RVFI JSON-lines sink destination opened by the
// TRACEFILE option, or nil if tracing was never configured. main.go
// wraps it in an rvfi.JSONLSink after loading the config file.
var TraceFile *os.File

func init() {
	config.RegisterOption("MEMSIZE", setMemSize)
	config.RegisterOption("MTVEC", setMtvec)
	config.RegisterModel("DEBUG", config.TypeOptions, setDebug)
	config.RegisterOption("TRACEFILE", setTraceFile)
	config.RegisterOption("DEBUGFILE", setDebugFile)
}

func setMemSize(_ uint16, value string, _ []config.Option) error {
	size, err := parseSize(value)
	if err != nil {
		return errors.New("MEMSIZE: " + err.Error())
	}
	MemSize = size
	return nil
}

func setMtvec(_ uint16, value string, _ []config.Option) error {
	v, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return errors.New("MTVEC must be a number: " + value)
	}
	MtvecReset = uint32(v)
	return nil
}

// setDebug processes "DEBUG CPU trap,fetch" / "DEBUG BUS ack" style lines.
func setDebug(_ uint16, subsystem string, options []config.Option) error {
	switch strings.ToUpper(subsystem) {
	case "CPU":
		CPUMask |= decodeDebugOptions(options)
	case "BUS":
		BusMask |= decodeDebugOptions(options)
	default:
		return errors.New("debug option invalid: " + subsystem)
	}
	return nil
}

func decodeDebugOptions(options []config.Option) int {
	mask := 0
	for range options {
		mask |= 1
	}
	return mask
}

func setTraceFile(_ uint16, value string, _ []config.Option) error {
	file, err := os.Create(value)
	if err != nil {
		return errors.New("TRACEFILE: " + err.Error())
	}
	TraceFile = file
	return nil
}

func setDebugFile(_ uint16, value string, _ []config.Option) error {
	if err := debug.SetFile(value); err != nil {
		return errors.New("DEBUGFILE: " + err.Error())
	}
	return nil
}

// parseSize accepts a plain decimal number, optionally suffixed with K or
// M for kilobytes/megabytes, matching the config grammar's own <address>
// ::= <number><K|M> production.
func parseSize(value string) (uint64, error) {
	if value == "" {
		return 0, errors.New("missing value")
	}
	mult := uint64(1)
	switch value[len(value)-1] {
	case 'K', 'k':
		mult = 1024
		value = value[:len(value)-1]
	case 'M', 'm':
		mult = 1024 * 1024
		value = value[:len(value)-1]
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return n * mult, nil
}

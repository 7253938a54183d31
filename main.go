/*
 * rv32ucore - Main process.
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

package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rv32ucore/rv32ucore/bus"
	config "github.com/rv32ucore/rv32ucore/config/configparser"
	"github.com/rv32ucore/rv32ucore/config/runconfig"
	corerun "github.com/rv32ucore/rv32ucore/core"
	"github.com/rv32ucore/rv32ucore/cpu"
	"github.com/rv32ucore/rv32ucore/csr"
	"github.com/rv32ucore/rv32ucore/event"
	"github.com/rv32ucore/rv32ucore/rvfi"
	"github.com/rv32ucore/rv32ucore/ucode"
	"github.com/rv32ucore/rv32ucore/util/logger"
)

const defaultMemSize = 1 << 20 // 1 MiB, used when MEMSIZE is never set.

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "rv32ucore.cfg", "Configuration file")
	optImage := getopt.StringLong("image", 'i', "", "Raw binary to load into RAM at address 0")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if optLogFile != nil && *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, false))
	slog.SetDefault(Logger)

	Logger.Info("rv32ucore started")

	if optConfig != nil && *optConfig != "" {
		if _, err := os.Stat(*optConfig); err == nil {
			if err := config.LoadConfigFile(*optConfig); err != nil {
				Logger.Error(err.Error())
				os.Exit(1)
			}
		} else if !os.IsNotExist(err) {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	cpu.SetDebugMask(runconfig.CPUMask)
	bus.SetDebugMask(runconfig.BusMask)

	memSize := runconfig.MemSize
	if memSize == 0 {
		memSize = defaultMemSize
	}
	ram := bus.NewRAM(int(memSize), 0)

	if optImage != nil && *optImage != "" {
		image, err := os.ReadFile(*optImage)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		ram.Load(image)
	}

	store, err := ucode.Image()
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	var sink rvfi.Sink
	if runconfig.TraceFile != nil {
		sink = rvfi.NewJSONLSink(runconfig.TraceFile)
	}

	sched := &event.Queue{}
	core := cpu.New(store, ram, sched, sink, Logger)
	if runconfig.MtvecReset != 0 {
		core.PresetCSR(csr.Mtvec, runconfig.MtvecReset)
	}

	run := corerun.New(core, Logger)

	// Start main emulator.
	go run.Start()
	run.Run()

	// Wait for a SIGINT or SIGTERM signal to gracefully shut down.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	msg := make(chan string, 1)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		for {
			input, _ := reader.ReadString('\n')
			msg <- input
		}
	}()

loop:
	for {
		select {
		case <-sigChan:
			fmt.Println("Got quit signal")
			break loop
		case input := <-msg:
			switch input {
			case "reset\n":
				run.Reset()
			case "halt\n":
				run.Halt()
			case "run\n":
				run.Run()
			}
		}
	}

	Logger.Info("Shutting down CPU")
	run.Stop()
	if runconfig.TraceFile != nil {
		runconfig.TraceFile.Close()
	}
	Logger.Info("Servers stopped.")
}

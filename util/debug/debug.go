/*
 * rv32ucore - Log debug data to a file
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

package debug

import (
	"fmt"
	"io"
	"os"
)

// logFile is where Debugf writes once a trace file has been configured;
// it defaults to stderr so enabling a subsystem's DEBUG mask is visible
// immediately, with no separate debug-file option required.
var logFile io.Writer = os.Stderr

// Debugf writes a gated debug trace line to the current trace
// destination. mask & level selects whether anything is written at all,
// the same bitmask-gate shape a per-subsystem Debugf commonly uses.
func Debugf(subsystem string, mask int, level int, format string, a ...interface{}) {
	if (mask & level) == 0 {
		return
	}
	fmt.Fprintf(logFile, subsystem+": "+format+"\n", a...)
}

// currentFile tracks the file SetFile opened, if any, so a later SetFile
// call can close it before switching.
var currentFile *os.File

// SetFile opens fileName as the destination for subsequent Debugf calls,
// replacing any previously configured trace file.
func SetFile(fileName string) error {
	if currentFile != nil {
		if err := currentFile.Close(); err != nil {
			return err
		}
	}
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create debug file: %s", fileName)
	}
	currentFile, logFile = file, file
	return nil
}

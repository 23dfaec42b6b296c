// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import "fmt"

// Severity is the severity of a log message. It is ordered so that more
// severe messages compare greater, which keeps SeverityFilter's comparison
// a plain <=.
type Severity int32

const (
	// Debug indicates verbose debug-level messages.
	Debug Severity = iota
	// Info indicates minor informational messages that are usually ignored.
	Info
	// Notice indicates normal but significant conditions.
	Notice
	// Warning indicates issues that might affect correctness but can be ignored.
	Warning
	// Error indicates a non terminal failure that may affect the result.
	Error
	// Fatal indicates the process cannot continue.
	Fatal
)

// String returns the long form name of the severity.
func (s Severity) String() string {
	switch s {
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Notice:
		return "Notice"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Short returns the single character form of the severity.
func (s Severity) Short() string {
	switch s {
	case Debug:
		return "D"
	case Info:
		return "I"
	case Notice:
		return "N"
	case Warning:
		return "W"
	case Error:
		return "E"
	case Fatal:
		return "F"
	default:
		return "?"
	}
}

// Set implements flag.Value, so a Severity can be bound directly as a
// command line flag.
func (s *Severity) Set(value string) error {
	for _, c := range []Severity{Debug, Info, Notice, Warning, Error, Fatal} {
		if c.String() == value || c.Short() == value {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", value)
}

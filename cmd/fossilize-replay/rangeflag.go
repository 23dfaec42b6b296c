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

package main

import (
	"fmt"
	"strconv"
)

// rangeFlag is a [start, end) pipeline-index range.
type rangeFlag struct {
	start, end uint32
	set        bool
}

// stripRangeFlags pulls "--graphics-pipeline-range <start> <end>" and
// "--compute-pipeline-range <start> <end>" out of args, since each takes
// two positional values rather than one and so can't be registered with
// the standard flag package the way every other flag here is (core/app's
// flags.Set is a thin wrapper over flag.FlagSet, not a replacement for
// it). Anything else in args, including the archive paths, passes
// through untouched and in order.
func stripRangeFlags(args []string) (rest []string, graphics, compute rangeFlag, err error) {
	rest = make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--graphics-pipeline-range":
			if graphics, i, err = consumeRange(args, i); err != nil {
				return nil, rangeFlag{}, rangeFlag{}, err
			}
		case "--compute-pipeline-range":
			if compute, i, err = consumeRange(args, i); err != nil {
				return nil, rangeFlag{}, rangeFlag{}, err
			}
		default:
			rest = append(rest, args[i])
			continue
		}
	}
	return rest, graphics, compute, nil
}

func consumeRange(args []string, i int) (rangeFlag, int, error) {
	if i+2 >= len(args) {
		return rangeFlag{}, i, fmt.Errorf("%s requires two arguments: <start> <end>", args[i])
	}
	start, err := strconv.ParseUint(args[i+1], 10, 32)
	if err != nil {
		return rangeFlag{}, i, fmt.Errorf("%s: invalid start %q: %v", args[i], args[i+1], err)
	}
	end, err := strconv.ParseUint(args[i+2], 10, 32)
	if err != nil {
		return rangeFlag{}, i, fmt.Errorf("%s: invalid end %q: %v", args[i], args[i+2], err)
	}
	return rangeFlag{start: uint32(start), end: uint32(end), set: true}, i + 2, nil
}

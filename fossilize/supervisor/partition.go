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

package supervisor

import "github.com/google/gapid/core/math/interval"

// Range is a half-open index range [Start, End) over one pipeline kind.
type Range = interval.U64Span

// Partition splits [0, n) into p near-equal half-open ranges, worker i
// getting [floor(i*n/p), floor((i+1)*n/p)). The remainder left by integer
// division is spread across the slots by the formula itself, which also
// guarantees the union covers [0,n) exactly once since
// floor((i+1)*n/p) of slot i equals floor(i*n/p) of slot i+1.
func Partition(n uint64, p int) []Range {
	if p <= 0 {
		return nil
	}
	out := make([]Range, p)
	for i := 0; i < p; i++ {
		out[i] = Range{
			Start: n * uint64(i) / uint64(p),
			End:   n * uint64(i+1) / uint64(p),
		}
	}
	return out
}

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

import "testing"

func TestPartitionNineOverThree(t *testing.T) {
	got := Partition(9, 3)
	want := []Range{{Start: 0, End: 3}, {Start: 3, End: 6}, {Start: 6, End: 9}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPartitionSixOverThree(t *testing.T) {
	got := Partition(6, 3)
	want := []Range{{Start: 0, End: 2}, {Start: 2, End: 4}, {Start: 4, End: 6}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPartitionCoversWholeRangeEvenWhenUneven(t *testing.T) {
	got := Partition(10, 3)
	if got[0].Start != 0 {
		t.Fatalf("first range does not start at 0: %v", got)
	}
	if got[len(got)-1].End != 10 {
		t.Fatalf("last range does not end at 10: %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start != got[i-1].End {
			t.Fatalf("ranges are not contiguous: %v", got)
		}
	}
}

func TestPartitionZeroPipelines(t *testing.T) {
	got := Partition(0, 3)
	for _, r := range got {
		if r.Start != 0 || r.End != 0 {
			t.Fatalf("expected empty ranges, got %v", got)
		}
	}
}

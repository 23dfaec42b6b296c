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

package ipc

import (
	"io"
	"testing"
)

func TestParseGrammar(t *testing.T) {
	cases := []struct {
		line string
		kind Kind
	}{
		{"CRASH", KindCrash},
		{"MODULE deadbeefdeadbeef", KindModule},
		{"GRAPHICS 1", KindGraphics},
		{"COMPUTE 0", KindCompute},
		{"GARBAGE", KindUnknown},
		{"", KindUnknown},
		{"MODULE nothex", KindUnknown},
	}
	for _, c := range cases {
		if got := Parse(c.line).Kind; got != c.kind {
			t.Errorf("Parse(%q).Kind = %v, want %v", c.line, got, c.kind)
		}
	}
}

func TestModuleHashRoundTrips(t *testing.T) {
	msg := Parse(FormatModule(0xdeadbeef))
	if msg.Kind != KindModule || msg.ModuleHash != 0xdeadbeef {
		t.Fatalf("got %+v", msg)
	}
}

func TestChannelDeliversEventsInOrder(t *testing.T) {
	pr, pw := io.Pipe()
	c := NewChannel(pr)
	go func() {
		io.WriteString(pw, FormatCrash())
		io.WriteString(pw, FormatModule(0xdeadbeef))
		io.WriteString(pw, FormatGraphics(1))
		pw.Close()
	}()

	var got []Kind
	for ev := range c.Events() {
		if ev.Err != nil {
			t.Fatalf("unexpected error: %v", ev.Err)
		}
		got = append(got, ev.Msg.Kind)
	}
	want := []Kind{KindCrash, KindModule, KindGraphics}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

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

package hash

import "testing"

func TestDeterministic(t *testing.T) {
	a := New().U32(1).String("hi").Bytes([]byte{1, 2, 3}).Sum()
	b := New().U32(1).String("hi").Bytes([]byte{1, 2, 3}).Sum()
	if a != b {
		t.Fatalf("identical token sequences hashed differently: %v != %v", a, b)
	}
}

func TestTypeDistinguishesEqualValues(t *testing.T) {
	u32 := New().U32(0).Sum()
	u64 := New().U64(0).Sum()
	if u32 == u64 {
		t.Fatalf("U32(0) and U64(0) must not collide")
	}
}

func TestByteLengthPrefixAvoidsAmbiguity(t *testing.T) {
	a := New().Bytes([]byte{0x01}).Bytes([]byte{0x02}).Sum()
	b := New().Bytes([]byte{0x01, 0x02}).Sum()
	if a == b {
		t.Fatalf("length-prefixed byte blobs must not collide across split boundaries")
	}
}

func TestOrderSensitive(t *testing.T) {
	a := New().U32(1).U32(2).Sum()
	b := New().U32(2).U32(1).Sum()
	if a == b {
		t.Fatalf("hasher must be order-sensitive")
	}
}

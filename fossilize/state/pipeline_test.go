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

package state

import "testing"

// Scenario 5 of the spec: two graphics pipelines differ only in
// pViewports[0].width, and both declare VK_DYNAMIC_STATE_VIEWPORT; their
// hashes must be equal. Remove the dynamic declaration and the hashes
// must differ.
func TestDynamicViewportSuppression(t *testing.T) {
	base := func(width float32, dynamic bool) GraphicsPipeline {
		p := GraphicsPipeline{
			Viewport: &ViewportState{
				Viewports: []Viewport{{Width: width, Height: 100}},
			},
		}
		if dynamic {
			p.DynamicState = DynamicViewport
		}
		return p
	}

	r := New()
	p1 := base(800, true)
	p2 := base(1024, true)
	if p1.Hash(r) != p2.Hash(r) {
		t.Fatalf("dynamic-viewport pipelines should hash equally: %v != %v", p1.Hash(r), p2.Hash(r))
	}

	q1 := base(800, false)
	q2 := base(1024, false)
	if q1.Hash(r) == q2.Hash(r) {
		t.Fatalf("non-dynamic viewport pipelines with different widths must hash differently")
	}
}

func TestBlendConstantsOnlyHashedWhenUsedAndNotDynamic(t *testing.T) {
	withConstant := func(dynamic bool, c0 float32) GraphicsPipeline {
		p := GraphicsPipeline{
			ColorBlend: &ColorBlendState{
				Attachments: []BlendAttachment{{
					BlendEnable:         true,
					SrcColorBlendFactor: BlendFactorConstantColor,
					DstColorBlendFactor: 0,
				}},
				BlendConstants: [4]float32{c0, 0, 0, 0},
			},
		}
		if dynamic {
			p.DynamicState = DynamicBlendConstants
		}
		return p
	}

	r := New()
	a := withConstant(false, 0.1)
	b := withConstant(false, 0.9)
	if a.Hash(r) == b.Hash(r) {
		t.Fatalf("constant-color blend pipelines with differing blend constants must hash differently")
	}

	da := withConstant(true, 0.1)
	db := withConstant(true, 0.9)
	if da.Hash(r) != db.Hash(r) {
		t.Fatalf("dynamic blend constants should suppress the blend-constant fields from the hash")
	}
}

func TestSampleMaskWordCount(t *testing.T) {
	cases := []struct {
		samples uint32
		want    uint32
	}{
		{0, 0}, {1, 1}, {32, 1}, {33, 2}, {64, 2}, {65, 3},
	}
	for _, c := range cases {
		if got := sampleMaskWords(c.samples); got != c.want {
			t.Errorf("sampleMaskWords(%d) = %d, want %d", c.samples, got, c.want)
		}
	}
}

func TestHashComposesByReferenceNotIndex(t *testing.T) {
	r1 := New()
	sRef1, _ := r1.RegisterSampler(Sampler{MagFilter: 1})
	layout1 := DescriptorSetLayout{Bindings: []DescriptorBinding{{
		DescriptorType:    DescriptorTypeSampler,
		ImmutableSamplers: []Ref{sRef1},
	}}}

	// A second registry where an unrelated sampler is registered first,
	// shifting the index of the sampler actually referenced. The
	// resulting layout hash must be identical, since hashing goes by the
	// referenced hash, not by registry position.
	r2 := New()
	r2.RegisterSampler(Sampler{MagFilter: 99})
	sRef2, _ := r2.RegisterSampler(Sampler{MagFilter: 1})
	layout2 := DescriptorSetLayout{Bindings: []DescriptorBinding{{
		DescriptorType:    DescriptorTypeSampler,
		ImmutableSamplers: []Ref{sRef2},
	}}}

	if layout1.Hash(r1) != layout2.Hash(r2) {
		t.Fatalf("layout hash must depend only on referenced sampler hash, not its registry index")
	}
}

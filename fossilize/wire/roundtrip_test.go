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

package wire

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/gapid/fossilize/state"
)

// stubEngine records the order in which kinds were touched and rebuilds a
// registry from the callbacks, the way a real replayer engine would.
type stubEngine struct {
	order    []string
	registry *state.Registry
}

func newStubEngine() *stubEngine {
	return &stubEngine{registry: state.New()}
}

func (e *stubEngine) SetNumSamplers(n int) { e.order = append(e.order, "samplers") }
func (e *stubEngine) EnqueueCreateSampler(hash uint64, index int, v state.Sampler) {
	e.registry.RegisterSampler(v)
}
func (e *stubEngine) WaitEnqueueSamplers() error { return nil }

func (e *stubEngine) SetNumSetLayouts(n int) { e.order = append(e.order, "setLayouts") }
func (e *stubEngine) EnqueueCreateSetLayout(hash uint64, index int, v state.DescriptorSetLayout) {
	e.registry.RegisterSetLayout(v)
}
func (e *stubEngine) WaitEnqueueSetLayouts() error { return nil }

func (e *stubEngine) SetNumPipelineLayouts(n int) { e.order = append(e.order, "pipelineLayouts") }
func (e *stubEngine) EnqueueCreatePipelineLayout(hash uint64, index int, v state.PipelineLayout) {
	e.registry.RegisterPipelineLayout(v)
}
func (e *stubEngine) WaitEnqueuePipelineLayouts() error { return nil }

func (e *stubEngine) SetNumShaderModules(n int) { e.order = append(e.order, "shaderModules") }
func (e *stubEngine) EnqueueCreateShaderModule(hash uint64, index int, v state.ShaderModule) {
	e.registry.RegisterShaderModule(v)
}
func (e *stubEngine) WaitEnqueueShaderModules() error { return nil }

func (e *stubEngine) SetNumRenderPasses(n int) { e.order = append(e.order, "renderPasses") }
func (e *stubEngine) EnqueueCreateRenderPass(hash uint64, index int, v state.RenderPass) {
	e.registry.RegisterRenderPass(v)
}
func (e *stubEngine) WaitEnqueueRenderPasses() error { return nil }

func (e *stubEngine) SetNumComputePipelines(n int) { e.order = append(e.order, "computePipelines") }
func (e *stubEngine) EnqueueCreateComputePipeline(hash uint64, index int, v state.ComputePipeline) {
	e.registry.RegisterComputePipeline(v)
}
func (e *stubEngine) WaitEnqueueComputePipelines() error { return nil }

func (e *stubEngine) SetNumGraphicsPipelines(n int) { e.order = append(e.order, "graphicsPipelines") }
func (e *stubEngine) EnqueueCreateGraphicsPipeline(hash uint64, index int, v state.GraphicsPipeline) {
	e.registry.RegisterGraphicsPipeline(v)
}
func (e *stubEngine) WaitEnqueueGraphicsPipelines() error { return nil }

// TestRoundTrip is end-to-end scenario 6 of the spec: record 1 sampler, 1
// set-layout referencing it as immutable, 1 pipeline-layout, 1 shader
// module, 1 compute pipeline; serialize; parse into a stub engine that
// records callbacks; assert the callback sequence and resolved references.
func TestRoundTrip(t *testing.T) {
	r := state.New()
	samplerRef, _ := r.RegisterSampler(state.Sampler{MagFilter: 3})
	_, _ = r.RegisterSetLayout(state.DescriptorSetLayout{
		Bindings: []state.DescriptorBinding{{
			DescriptorType:    state.DescriptorTypeSampler,
			ImmutableSamplers: []state.Ref{samplerRef},
		}},
	})
	layoutRef, _ := r.RegisterPipelineLayout(state.PipelineLayout{})
	moduleRef, _ := r.RegisterShaderModule(state.ShaderModule{Code: []uint32{1, 2, 3}})
	_, _ = r.RegisterComputePipeline(state.ComputePipeline{
		Layout: layoutRef,
		Stage:  state.Stage{Module: moduleRef, EntryPoint: "main", StageBits: 0x20},
	})

	data, err := Serialize(r)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	e := newStubEngine()
	if err := Parse(data, e); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantOrder := []string{
		"samplers", "setLayouts", "pipelineLayouts", "shaderModules",
		"renderPasses", "computePipelines", "graphicsPipelines",
	}
	if !reflect.DeepEqual(e.order, wantOrder) {
		t.Fatalf("callback order = %v, want %v", e.order, wantOrder)
	}

	if len(e.registry.ComputePipelines) != 1 {
		t.Fatalf("expected 1 compute pipeline, got %d", len(e.registry.ComputePipelines))
	}
	got := e.registry.ComputePipelines[0].Hash()
	want := r.ComputePipelines[0].Hash()
	if got != want {
		t.Fatalf("round-tripped compute pipeline hash = %v, want %v", got, want)
	}
}

func TestParseRejectsDanglingReference(t *testing.T) {
	doc := `{"samplers":[],"setLayouts":[{"hash":1,"flags":0,"bindings":[{"binding":0,"descriptorType":0,"descriptorCount":1,"stageFlags":0,"immutableSamplers":[5]}]}],"pipelineLayouts":[],"shaderModules":[],"renderPasses":[],"computePipelines":[],"graphicsPipelines":[]}`
	e := newStubEngine()
	err := Parse([]byte(doc), e)
	if err == nil {
		t.Fatalf("expected DanglingReference, got nil")
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	e := newStubEngine()
	if err := Parse([]byte("not json"), e); err == nil {
		t.Fatalf("expected MalformedDocument, got nil")
	}
}

// TestDepthStencilAttachmentSentinelRoundTrips is spec section 6(c): a
// subpass with no depth-stencil attachment must serialize the literal
// JSON -1, not uint32 NoAttachment's 4294967295 bit pattern, and must
// parse back into a subpass with DepthStencilSet false.
func TestDepthStencilAttachmentSentinelRoundTrips(t *testing.T) {
	r := state.New()
	r.RegisterRenderPass(state.RenderPass{
		Attachments: []state.Attachment{{}},
		Subpasses: []state.Subpass{{
			ColorAttachments: []state.AttachmentRef{{Attachment: 0}},
		}},
	})

	data, err := Serialize(r)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.Contains(string(data), `"attachment":-1`) {
		t.Fatalf("serialized document does not contain the literal -1 sentinel: %s", data)
	}

	e := newStubEngine()
	if err := Parse(data, e); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(e.registry.RenderPasses) != 1 || len(e.registry.RenderPasses[0].Subpasses) != 1 {
		t.Fatalf("expected 1 render pass with 1 subpass, got %+v", e.registry.RenderPasses)
	}
	if e.registry.RenderPasses[0].Subpasses[0].DepthStencilSet {
		t.Fatalf("expected DepthStencilSet = false after round-tripping the sentinel")
	}
}

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package graphx_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	wrapperspb "google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/flowline-io/flowline/core/graph"
	"github.com/flowline-io/flowline/core/runtime/graphx"
	"github.com/flowline-io/flowline/core/util/protox"
	"github.com/flowline-io/flowline/model/wire"
)

// countPipeline builds a small composite pipeline out of raw transforms:
//
//	Count
//	├── Count/Read  (urn + payload)   -> c
//	└── Count/Sum   (urn only)   c -> c'
func countPipeline(t *testing.T) []*graph.Applied {
	t.Helper()
	g := graph.New()
	lines := g.NewCollection("string", true)
	counts := g.NewCollection("int", true)

	read := graph.NewApplied("Count/Read", graph.NewRawTransform(graphx.URNRead, wrapperspb.String("gs://bucket/file"))).
		AddOutput("out", lines)
	sum := graph.NewApplied("Count/Sum", graph.NewRawTransform("test:transform:sum:v1", nil)).
		AddInput("in", lines).
		AddOutput("out", counts)
	count := graph.NewApplied("Count", countTransform{}).
		AddChild(read).
		AddChild(sum)
	return []*graph.Applied{count}
}

func TestMarshal(t *testing.T) {
	reg := newRegistry(t, graphx.DefaultProviders()...)

	p, err := graphx.Marshal(countPipeline(t), reg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	xforms := p.GetComponents().GetTransforms()
	if got, want := len(xforms), 3; got != want {
		t.Fatalf("marshaled %v transforms, want %v", got, want)
	}
	if got, want := len(p.GetComponents().GetCollections()), 2; got != want {
		t.Fatalf("marshaled %v collections, want %v", got, want)
	}
	if got, want := len(p.Roots), 1; got != want {
		t.Fatalf("marshaled %v roots, want %v", got, want)
	}

	root := xforms[p.Roots[0]]
	if root.UniqueName != "Count" {
		t.Errorf("root name = %v, want Count", root.UniqueName)
	}
	if root.GetSpec() != nil {
		t.Errorf("composite has a spec: %+v", root.GetSpec())
	}
	if got, want := len(root.Subtransforms), 2; got != want {
		t.Fatalf("root has %v children, want %v", got, want)
	}

	names := map[string]string{}
	for _, sid := range root.Subtransforms {
		names[xforms[sid].UniqueName] = xforms[sid].GetSpec().GetURN()
	}
	want := map[string]string{
		"Count/Read": graphx.URNRead,
		"Count/Sum":  "test:transform:sum:v1",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("child specs diff (-want +got):\n%v", diff)
	}
}

// TestRawRoundTrip checks spec losslessness through
// marshal -> unmarshal -> marshal: URNs and payload bytes survive
// unchanged, and a second round trip is idempotent.
func TestRawRoundTrip(t *testing.T) {
	reg := newRegistry(t, graphx.DefaultProviders()...)

	wantPayload, err := protox.EncodeAnyBytes(wrapperspb.String("gs://bucket/file"))
	if err != nil {
		t.Fatalf("EncodeAnyBytes failed: %v", err)
	}

	first, err := graphx.Marshal(countPipeline(t), reg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	readSpec := specByName(t, first, "Count/Read")
	if readSpec.URN != graphx.URNRead {
		t.Errorf("marshaled urn = %v, want %v", readSpec.URN, graphx.URNRead)
	}
	if !bytes.Equal(readSpec.Payload, wantPayload) {
		t.Errorf("marshaled payload = %v, want %v", readSpec.Payload, wantPayload)
	}

	rehydrated, err := graphx.Unmarshal(first)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	second, err := graphx.Marshal(rehydrated, reg)
	if err != nil {
		t.Fatalf("Marshal(rehydrated) failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip changed the pipeline (-first +second):\n%v", diff)
	}

	again, err := graphx.Unmarshal(second)
	if err != nil {
		t.Fatalf("Unmarshal(second) failed: %v", err)
	}
	third, err := graphx.Marshal(again, reg)
	if err != nil {
		t.Fatalf("Marshal(again) failed: %v", err)
	}
	if diff := cmp.Diff(second, third); diff != "" {
		t.Errorf("re-marshal not idempotent (-second +third):\n%v", diff)
	}
}

// TestUnmarshalRaw checks that rehydrated primitives come back as raw
// transforms and spec-less composites as expanded transforms.
func TestUnmarshalRaw(t *testing.T) {
	reg := newRegistry(t, graphx.DefaultProviders()...)

	p, err := graphx.Marshal(countPipeline(t), reg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	roots, err := graphx.Unmarshal(p)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("rehydrated %v roots, want 1", len(roots))
	}

	count := roots[0]
	if _, ok := count.Transform.(graph.Expanded); !ok {
		t.Errorf("composite came back as %T, want graph.Expanded", count.Transform)
	}
	if len(count.Children) != 2 {
		t.Fatalf("composite has %v children, want 2", len(count.Children))
	}
	for _, child := range count.Children {
		raw, ok := child.Transform.(*graph.RawTransform)
		if !ok {
			t.Errorf("child %v came back as %T, want *graph.RawTransform", child.FullName, child.Transform)
			continue
		}
		if raw.URN == "" {
			t.Errorf("child %v has empty urn", child.FullName)
		}
	}
}

func TestMarshalUniqueNames(t *testing.T) {
	reg := newRegistry(t, graphx.DefaultProviders()...)

	g := graph.New()
	a := graph.NewApplied("Dup", graph.NewRawTransform("test:a:v1", nil)).
		AddOutput("out", g.NewCollection("int", true))
	b := graph.NewApplied("Dup", graph.NewRawTransform("test:b:v1", nil)).
		AddOutput("out", g.NewCollection("int", true))

	p, err := graphx.Marshal([]*graph.Applied{a, b}, reg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	seen := map[string]bool{}
	for _, n := range p.GetComponents().GetTransforms() {
		if seen[n.UniqueName] {
			t.Errorf("name %v not unique", n.UniqueName)
		}
		seen[n.UniqueName] = true
	}
}

func TestUnmarshalEmpty(t *testing.T) {
	if _, err := graphx.Unmarshal(&wire.Pipeline{Components: &wire.Components{}}); err == nil {
		t.Error("Unmarshal accepted an empty pipeline")
	}
}

func TestUnmarshalDanglingCollection(t *testing.T) {
	p := &wire.Pipeline{
		Components: &wire.Components{
			Transforms: map[string]*wire.Node{
				"t0": {
					UniqueName: "sink",
					Inputs:     map[string]string{"in": "c9"},
				},
			},
		},
		Roots: []string{"t0"},
	}
	if _, err := graphx.Unmarshal(p); err == nil {
		t.Error("Unmarshal accepted a dangling collection reference")
	}
}

func specByName(t *testing.T, p *wire.Pipeline, name string) *wire.Spec {
	t.Helper()
	for _, n := range p.GetComponents().GetTransforms() {
		if n.UniqueName == name {
			if n.GetSpec() == nil {
				t.Fatalf("%v has no spec", name)
			}
			return n.GetSpec()
		}
	}
	t.Fatalf("no transform named %v", name)
	return nil
}

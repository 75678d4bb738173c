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

package pipelinex

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flowline-io/flowline/model/wire"
)

func ptImpulse(out string) *wire.Node {
	return &wire.Node{Outputs: map[string]string{"i0": out}}
}

func ptNoSide(in, out string) *wire.Node {
	return &wire.Node{
		Inputs:  map[string]string{"i0": in},
		Outputs: map[string]string{"i0": out},
	}
}

func ptSink(ins ...string) *wire.Node {
	inputs := make(map[string]string)
	for i, in := range ins {
		inputs[intTag(i)] = in
	}
	return &wire.Node{Inputs: inputs}
}

func intTag(i int) string {
	return string(rune('a' + i))
}

func ptComp(children ...string) *wire.Node {
	return &wire.Node{Subtransforms: children}
}

func TestTopologicalSort(t *testing.T) {
	graphs := map[string]map[string]*wire.Node{
		"linkedList": {
			"p0": ptImpulse("n0"),
			"p1": ptNoSide("n0", "n1"),
			"p2": ptNoSide("n1", "n2"),
			"p3": ptNoSide("n2", "n3"),
			"p4": ptSink("n3"),
		},
		"binarytree": {
			"p0":   ptImpulse("n0"),
			"p1a":  ptNoSide("n0", "n1a"),
			"p1b":  ptNoSide("n0", "n1b"),
			"p2aa": ptSink("n1a"),
			"p2ab": ptSink("n1a"),
			"p2ba": ptSink("n1b"),
			"p2bb": ptSink("n1b"),
		},
		"linkedListWComps": {
			"p0": ptImpulse("n0"),
			"p1": ptNoSide("n0", "n1"),
			"p2": ptNoSide("n1", "n2"),
			"p3": ptNoSide("n2", "n3"),
			"p4": ptSink("n3"),
			"c1": ptComp("p0"),
			"c2": ptComp("p1", "p2"),
			"c3": ptComp("c1", "c2", "p3"),
		},
	}

	for k, g := range graphs {
		graphs[k] = computeCompositeInputOutput(g)
	}

	tests := []struct {
		graph  string
		toSort []string
	}{
		{graph: "linkedList", toSort: []string{}},
		{graph: "linkedList", toSort: []string{"p0", "p1", "p2", "p3", "p4"}},
		{graph: "linkedList", toSort: []string{"p3", "p4", "p0", "p1", "p2"}},
		{graph: "binarytree", toSort: []string{"p0", "p2bb", "p2aa", "p2ba", "p1b", "p1a", "p2ab"}},
		{graph: "binarytree", toSort: []string{"p1b", "p0", "p2ba"}},
		{graph: "linkedListWComps", toSort: []string{"c3", "p4"}},
		{graph: "linkedListWComps", toSort: []string{"c1", "c2", "p3", "p4"}},
		{graph: "linkedListWComps", toSort: []string{"p0", "c2", "p3", "p4"}},
	}
	for _, test := range tests {
		t.Run(test.graph, func(t *testing.T) {
			xforms := graphs[test.graph]
			got1 := TopologicalSort(xforms, test.toSort)
			got2 := TopologicalSort(xforms, test.toSort)
			if diff := cmp.Diff(got1, got2); diff != "" {
				t.Errorf("TopologicalSort(%v, %v) not deterministic: %v", test.graph, test.toSort, diff)
			}
			validateSort(t, xforms, test.toSort, got1)
		})
	}
}

// validateSort checks that the output is a permutation of the input and
// that every producer precedes its consumers.
func validateSort(t *testing.T, xforms map[string]*wire.Node, in, got []string) {
	t.Helper()
	if len(got) != len(in) {
		t.Fatalf("sorted set has %v ids, want %v", len(got), len(in))
	}
	index := make(map[string]int)
	for i, id := range got {
		index[id] = i
	}
	for _, id := range in {
		if _, ok := index[id]; !ok {
			t.Fatalf("id %v missing from sorted set %v", id, got)
		}
	}

	producer := make(map[string]string)
	for _, id := range got {
		for _, col := range xforms[id].Outputs {
			producer[col] = id
		}
	}
	for _, id := range got {
		for _, col := range xforms[id].Inputs {
			p, ok := producer[col]
			if !ok || p == id {
				continue
			}
			if index[p] > index[id] {
				t.Errorf("%v consumes %v but its producer %v sorts later: %v", id, col, p, got)
			}
		}
	}
}

func TestBounded(t *testing.T) {
	p := &wire.Pipeline{
		Components: &wire.Components{
			Collections: map[string]*wire.Collection{
				"c0": {UniqueName: "c0", Bounded: true},
				"c1": {UniqueName: "c1", Bounded: true},
			},
		},
	}
	if !Bounded(p) {
		t.Error("Bounded = false for all-bounded pipeline")
	}
	p.Components.Collections["c1"].Bounded = false
	if Bounded(p) {
		t.Error("Bounded = true with an unbounded collection")
	}
}

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

// Package pipelinex contains utilities for manipulating wire pipelines.
// The utilities generally use shallow copies and do not mutate their
// inputs.
package pipelinex

import (
	"path"
	"strings"

	"github.com/flowline-io/flowline/internal/errors"
	"github.com/flowline-io/flowline/model/wire"
)

// Normalize recomputes derivative information in the pipeline, such as
// roots and input/output maps for composite transforms. It also ensures
// that unique names are so and topologically sorts each subtransform list.
func Normalize(p *wire.Pipeline) (*wire.Pipeline, error) {
	if len(p.GetComponents().GetTransforms()) == 0 {
		return nil, errors.New("empty pipeline")
	}

	ret := wire.ShallowClonePipeline(p)
	ret.Components.Transforms = ensureUniqueNames(ret.Components.Transforms)
	ret.Components.Transforms = computeCompositeInputOutput(ret.Components.Transforms)
	ret.Roots = computeRoots(ret.Components.Transforms)
	return ret, nil
}

// computeRoots returns the root (top-level) transform ids in topological
// order.
func computeRoots(xforms map[string]*wire.Node) []string {
	var roots []string
	parents := makeParentMap(xforms)
	for id := range xforms {
		if _, ok := parents[id]; !ok {
			// Transforms without a parent are roots.
			roots = append(roots, id)
		}
	}
	return TopologicalSort(xforms, roots)
}

// Roots returns the ids of the transforms no composite claims as a child,
// in topological order.
func Roots(xforms map[string]*wire.Node) []string {
	return computeRoots(xforms)
}

func makeParentMap(xforms map[string]*wire.Node) map[string]string {
	parent := make(map[string]string)
	for id, t := range xforms {
		for _, key := range t.Subtransforms {
			parent[key] = id
		}
	}
	return parent
}

// computeCompositeInputOutput computes the derived input/output maps for
// composite transforms.
func computeCompositeInputOutput(xforms map[string]*wire.Node) map[string]*wire.Node {
	ret := shallowCloneTransforms(xforms)

	// Precompute the primitive transforms that consume each collection.
	leavesForInput := make(map[string][]string)
	for id, t := range xforms {
		if len(t.Subtransforms) == 0 {
			for _, col := range t.Inputs {
				leavesForInput[col] = append(leavesForInput[col], id)
			}
		}
	}

	seen := make(map[string]bool)
	for id := range xforms {
		walk(id, ret, seen, leavesForInput)
	}
	return ret
}

// walk traverses the structure recursively to compute the input/output
// maps of composite transforms. Updates the transform map in place.
func walk(id string, ret map[string]*wire.Node, seen map[string]bool, leavesForInput map[string][]string) {
	t := ret[id]
	if seen[id] || len(t.Subtransforms) == 0 {
		return
	}

	// Compute the input/output for this composite:
	//    inputs  := U(subinputs)\U(suboutputs)
	//    outputs := U(suboutputs)\U(subinputs)
	// where U is set union and \ is set subtraction.

	in := make(map[string]bool)
	out := make(map[string]bool)
	local := map[string]bool{id: true}
	for _, sid := range t.Subtransforms {
		walk(sid, ret, seen, leavesForInput)
		inout(ret[sid], in, out)
		local[sid] = true
	}

	// Outputs of this composite may also be consumed by transforms outside
	// it. Check the rest of the graph and keep such collections counted as
	// outputs even when a subtransform consumes them too.
	extIn := make(map[string]bool)
	externalIns(local, leavesForInput, extIn, out)

	upd := wire.ShallowCloneNode(t)
	upd.Inputs = diff(in, out)
	upd.Outputs = diffAndMerge(out, in, extIn)
	upd.Subtransforms = TopologicalSort(ret, upd.Subtransforms)

	ret[id] = upd
	seen[id] = true
}

// diff computes A\B and returns its keys as an identity map.
func diff(a, b map[string]bool) map[string]string {
	if len(a) == 0 {
		return nil
	}
	ret := make(map[string]string)
	for key := range a {
		if !b[key] {
			ret[key] = key
		}
	}
	if len(ret) == 0 {
		return nil
	}
	return ret
}

// inout adds the input and output collection ids to the accumulators.
func inout(t *wire.Node, in, out map[string]bool) {
	for _, col := range t.Inputs {
		in[col] = true
	}
	for _, col := range t.Outputs {
		out[col] = true
	}
}

func diffAndMerge(out, in, extIn map[string]bool) map[string]string {
	ret := diff(out, in)
	for key := range extIn {
		if ret == nil {
			ret = make(map[string]string)
		}
		ret[key] = key
	}
	return ret
}

// externalIns finds composite outputs consumed by leaves outside the
// composite.
func externalIns(local map[string]bool, leavesForInput map[string][]string, extIn, out map[string]bool) {
	for col := range out {
		for _, id := range leavesForInput[col] {
			if !local[id] {
				extIn[col] = true
			}
		}
	}
}

func shallowCloneTransforms(xforms map[string]*wire.Node) map[string]*wire.Node {
	ret := make(map[string]*wire.Node, len(xforms))
	for id, t := range xforms {
		ret[id] = t
	}
	return ret
}

// ensureUniqueNames ensures that each name is unique.
//
// Subtransforms are prefixed with the names of their parents, separated by
// a '/'. Any remaining conflict is resolved by adding '1, '2, etc to the
// name. Idempotent: names that are already unique and prefixed stay
// unchanged.
func ensureUniqueNames(xforms map[string]*wire.Node) map[string]*wire.Node {
	ret := shallowCloneTransforms(xforms)

	comp, leaf := separateCompsAndLeaves(xforms)
	parentLookup := make(map[string]string) // childID -> parentID
	for _, parentID := range comp {
		for _, childID := range xforms[parentID].Subtransforms {
			parentLookup[childID] = parentID
		}
	}

	parentNameCache := make(map[string]string) // parentID -> parentName
	seen := make(map[string]bool)
	uniquify := func(id string) string {
		t := xforms[id]
		base := path.Base(t.UniqueName)
		var prefix string
		if parentID, ok := parentLookup[id]; ok {
			prefix = getParentName(parentNameCache, parentLookup, parentID, xforms)
		}
		name := findFreeName(seen, prefix+base)
		seen[name] = true

		if name != t.UniqueName {
			upd := wire.ShallowCloneNode(t)
			upd.UniqueName = name
			ret[id] = upd
		}
		return name
	}
	// Composites first so parent names are settled before their children.
	for _, id := range comp {
		name := uniquify(id)
		parentNameCache[id] = name + "/"
	}
	for _, id := range leaf {
		uniquify(id)
	}
	return ret
}

func getParentName(nameCache, parentLookup map[string]string, parentID string, xforms map[string]*wire.Node) string {
	if name, ok := nameCache[parentID]; ok {
		return name
	}
	var parts []string
	curID := parentID
	for {
		parts = append(parts, path.Base(xforms[curID].UniqueName))
		if pid, ok := parentLookup[curID]; ok {
			curID = pid
			continue
		}
		break
	}

	// Reverse so parents come first.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	name := strings.Join(parts, "/") + "/"
	nameCache[parentID] = name
	return name
}

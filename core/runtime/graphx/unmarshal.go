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

package graphx

import (
	"sort"

	"github.com/flowline-io/flowline/core/graph"
	"github.com/flowline-io/flowline/core/runtime/pipelinex"
	"github.com/flowline-io/flowline/core/util/protox"
	"github.com/flowline-io/flowline/internal/errors"
	"github.com/flowline-io/flowline/model/wire"
)

// Unmarshal reconstructs an applied-transform forest from a wire pipeline.
//
// The producing logic is not available on this side, so transforms come
// back as raw transforms carrying exactly the URN and payload bytes from
// the wire; spec-less composites come back as expanded transforms.
// Re-marshaling the result is lossless for URNs and payload bytes.
func Unmarshal(p *wire.Pipeline) ([]*graph.Applied, error) {
	xforms := p.GetComponents().GetTransforms()
	if len(xforms) == 0 {
		return nil, errors.New("empty pipeline")
	}

	u := &unmarshaller{
		xforms: xforms,
		cols:   rebuildCollections(p.GetComponents().GetCollections()),
		memo:   make(map[string]*graph.Applied),
		active: make(map[string]bool),
	}

	roots := p.Roots
	if len(roots) == 0 {
		roots = pipelinex.Roots(xforms)
	}

	var ret []*graph.Applied
	for _, id := range roots {
		app, err := u.build(id)
		if err != nil {
			return nil, err
		}
		ret = append(ret, app)
	}
	return ret, nil
}

// rebuildCollections recreates graph collections for the wire ids, in
// sorted id order so reconstruction is deterministic.
func rebuildCollections(cols map[string]*wire.Collection) map[string]*graph.Collection {
	ids := make([]string, 0, len(cols))
	for id := range cols {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	g := graph.New()
	ret := make(map[string]*graph.Collection, len(cols))
	for _, id := range ids {
		wc := cols[id]
		ret[id] = g.NewCollection(wc.ElementType, wc.Bounded)
	}
	return ret
}

type unmarshaller struct {
	xforms map[string]*wire.Node
	cols   map[string]*graph.Collection
	memo   map[string]*graph.Applied
	active map[string]bool
}

func (u *unmarshaller) build(id string) (*graph.Applied, error) {
	if app, ok := u.memo[id]; ok {
		return app, nil
	}
	if u.active[id] {
		return nil, errors.Errorf("transform %v contains itself", id)
	}
	u.active[id] = true
	defer delete(u.active, id)

	node, ok := u.xforms[id]
	if !ok {
		return nil, errors.Errorf("unknown transform id %v", id)
	}

	var t graph.Transform
	if spec := node.Spec; spec != nil {
		raw := &graph.RawTransform{URN: spec.URN}
		if len(spec.Payload) > 0 {
			a, err := protox.DecodeAnyBytes(spec.Payload)
			if err != nil {
				return nil, errors.WithContextf(err, "decoding payload of %v", node.UniqueName)
			}
			raw.Payload = a
		}
		t = raw
	} else {
		t = graph.Expanded{}
	}

	app := graph.NewApplied(node.UniqueName, t)
	if err := u.bind(app, node.Inputs, (*graph.Applied).AddInput); err != nil {
		return nil, errors.WithContextf(err, "inputs of %v", node.UniqueName)
	}
	if err := u.bind(app, node.Outputs, (*graph.Applied).AddOutput); err != nil {
		return nil, errors.WithContextf(err, "outputs of %v", node.UniqueName)
	}
	for _, sid := range node.Subtransforms {
		child, err := u.build(sid)
		if err != nil {
			return nil, errors.WithContextf(err, "children of %v", node.UniqueName)
		}
		app.AddChild(child)
	}

	u.memo[id] = app
	return app, nil
}

// bind attaches the tagged collections to the applied transform in sorted
// tag order.
func (u *unmarshaller) bind(app *graph.Applied, slots map[string]string, add func(*graph.Applied, graph.Tag, graph.Value) *graph.Applied) error {
	tags := make([]string, 0, len(slots))
	for tag := range slots {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		col, ok := u.cols[slots[tag]]
		if !ok {
			return errors.Errorf("tag %v references unknown collection %v", tag, slots[tag])
		}
		add(app, graph.Tag(tag), col)
	}
	return nil
}

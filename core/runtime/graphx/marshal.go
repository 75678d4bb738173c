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
	"github.com/flowline-io/flowline/core/graph"
	"github.com/flowline-io/flowline/core/runtime/pipelinex"
	"github.com/flowline-io/flowline/internal/errors"
	"github.com/flowline-io/flowline/model/wire"
)

// Marshal lowers an applied-transform forest to a wire pipeline. The walk
// is post-order: children are translated and registered before their
// parents, so composites reference established ids. The result is
// normalized (unique names, composite input/output maps, topologically
// sorted roots).
func Marshal(roots []*graph.Applied, reg *Registry) (*wire.Pipeline, error) {
	m := newMarshaller(reg)
	for _, app := range roots {
		if _, err := m.add(app); err != nil {
			return nil, err
		}
	}
	p := &wire.Pipeline{Components: m.build()}
	return pipelinex.Normalize(p)
}

type marshaller struct {
	reg  *Registry
	comp *ComponentSet

	transforms  map[string]*wire.Node
	collections map[string]*wire.Collection
}

func newMarshaller(reg *Registry) *marshaller {
	return &marshaller{
		reg:         reg,
		comp:        NewComponents(),
		transforms:  make(map[string]*wire.Node),
		collections: make(map[string]*wire.Collection),
	}
}

func (m *marshaller) build() *wire.Components {
	return &wire.Components{
		Transforms:  m.transforms,
		Collections: m.collections,
	}
}

func (m *marshaller) add(app *graph.Applied) (string, error) {
	if id, err := m.comp.TransformID(app); err == nil {
		return id, nil
	}

	for _, c := range app.Children {
		if _, err := m.add(c); err != nil {
			return "", errors.WithContextf(err, "marshaling %v", app.FullName)
		}
	}

	node, err := Translate(app, m.reg, m)
	if err != nil {
		return "", err
	}
	id, err := m.comp.RegisterTransform(app)
	if err != nil {
		return "", err
	}
	m.transforms[id] = node
	return id, nil
}

// RegisterCollection materializes the wire form of the collection on first
// registration and delegates id allocation to the component set.
func (m *marshaller) RegisterCollection(c *graph.Collection) (string, error) {
	id, err := m.comp.RegisterCollection(c)
	if err != nil {
		return "", err
	}
	if _, ok := m.collections[id]; !ok {
		m.collections[id] = &wire.Collection{
			UniqueName:  id,
			ElementType: c.T,
			Bounded:     c.Bounded(),
		}
	}
	return id, nil
}

// TransformID delegates to the component set.
func (m *marshaller) TransformID(app *graph.Applied) (string, error) {
	return m.comp.TransformID(app)
}

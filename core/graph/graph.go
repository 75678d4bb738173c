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

// Package graph is the in-memory pipeline graph model: transforms bound to
// named input and output collections, forming a DAG that the translation
// layer can lower to wire form.
package graph

import (
	"fmt"
)

// Value is a reference to data flowing along an edge of the graph. The
// translation layer recognizes only one concrete kind, *Collection; other
// implementations exist for construction-time bookkeeping and never reach
// the wire.
type Value interface {
	String() string
}

// Collection is a typed data channel between transforms. It is the only
// Value kind with a wire representation.
type Collection struct {
	id int

	// T names the element type flowing through the collection.
	T string
	// bounded is whether the collection is finite.
	bounded bool
}

// ID returns the graph-local id of the collection.
func (c *Collection) ID() int {
	return c.id
}

// Bounded returns whether the collection is finite.
func (c *Collection) Bounded() bool {
	return c.bounded
}

func (c *Collection) String() string {
	return fmt.Sprintf("{%v: %v}", c.id, c.T)
}

// Graph allocates the components of one pipeline graph, keeping
// collection ids unique within it.
type Graph struct {
	collections []*Collection
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// NewCollection creates a new collection carrying elements of type t.
func (g *Graph) NewCollection(t string, bounded bool) *Collection {
	c := &Collection{id: len(g.collections), T: t, bounded: bounded}
	g.collections = append(g.collections, c)
	return c
}

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

// Package wire defines the portable representation of a pipeline graph.
// The schema is language neutral: a graph marshaled here can be
// reconstructed and executed by a different runtime, with kind-specific
// behavior carried as opaque payload bytes under a URN.
package wire

// Spec identifies what a transform does on the wire: a URN naming the
// transform kind and an opaque, kind-specific payload. The translation
// layer never interprets the payload bytes.
type Spec struct {
	URN     string `json:"urn"`
	Payload []byte `json:"payload,omitempty"`
}

// Node is the serialized form of one applied transform. Inputs and Outputs
// map local tags to the wire ids of the referenced collections.
// Subtransforms lists the wire ids of child transforms in composition
// order. Spec is absent for pure composites whose meaning is fully
// captured by their children.
type Node struct {
	UniqueName    string            `json:"unique_name"`
	Inputs        map[string]string `json:"inputs,omitempty"`
	Outputs       map[string]string `json:"outputs,omitempty"`
	Subtransforms []string          `json:"subtransforms,omitempty"`
	Spec          *Spec             `json:"spec,omitempty"`
}

// Collection is the serialized form of one data channel between
// transforms.
type Collection struct {
	UniqueName  string `json:"unique_name"`
	ElementType string `json:"element_type,omitempty"`
	Bounded     bool   `json:"bounded"`
}

// Components holds all graph components keyed by wire id.
type Components struct {
	Transforms  map[string]*Node       `json:"transforms,omitempty"`
	Collections map[string]*Collection `json:"collections,omitempty"`
}

// Pipeline is a complete marshaled graph: its components plus the ids of
// the root transforms in topological order.
type Pipeline struct {
	Components *Components `json:"components"`
	Roots      []string    `json:"root_transform_ids,omitempty"`
}

// ShallowClonePipeline copies the pipeline and its component maps. The
// nodes themselves are shared.
func ShallowClonePipeline(p *Pipeline) *Pipeline {
	ret := &Pipeline{
		Components: &Components{
			Transforms:  make(map[string]*Node, len(p.GetComponents().GetTransforms())),
			Collections: make(map[string]*Collection, len(p.GetComponents().GetCollections())),
		},
	}
	for id, t := range p.GetComponents().GetTransforms() {
		ret.Components.Transforms[id] = t
	}
	for id, c := range p.GetComponents().GetCollections() {
		ret.Components.Collections[id] = c
	}
	ret.Roots = append([]string(nil), p.Roots...)
	return ret
}

// ShallowCloneNode copies the node and its maps and slices.
func ShallowCloneNode(n *Node) *Node {
	ret := &Node{
		UniqueName: n.UniqueName,
		Spec:       n.Spec,
		Inputs:     make(map[string]string, len(n.Inputs)),
		Outputs:    make(map[string]string, len(n.Outputs)),
	}
	for tag, id := range n.Inputs {
		ret.Inputs[tag] = id
	}
	for tag, id := range n.Outputs {
		ret.Outputs[tag] = id
	}
	ret.Subtransforms = append([]string(nil), n.Subtransforms...)
	if len(ret.Inputs) == 0 {
		ret.Inputs = nil
	}
	if len(ret.Outputs) == 0 {
		ret.Outputs = nil
	}
	return ret
}

// GetComponents returns the pipeline's components, tolerating nil.
func (p *Pipeline) GetComponents() *Components {
	if p == nil {
		return nil
	}
	return p.Components
}

// GetTransforms returns the transform map, tolerating nil.
func (c *Components) GetTransforms() map[string]*Node {
	if c == nil {
		return nil
	}
	return c.Transforms
}

// GetCollections returns the collection map, tolerating nil.
func (c *Components) GetCollections() map[string]*Collection {
	if c == nil {
		return nil
	}
	return c.Collections
}

// GetSpec returns the node's spec, tolerating nil.
func (n *Node) GetSpec() *Spec {
	if n == nil {
		return nil
	}
	return n.Spec
}

// GetURN returns the spec's URN, tolerating nil.
func (s *Spec) GetURN() string {
	if s == nil {
		return ""
	}
	return s.URN
}

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

package graph

import (
	"fmt"
)

// Kind identifies a category of transform, such as "Read" or "ParDo".
// Translation is dispatched on the kind: each kind may have a registered
// translator that knows how to produce its wire payload.
type Kind string

// Kinds of the standard transforms.
const (
	Impulse    Kind = "Impulse"
	Read       Kind = "Read"
	ParDo      Kind = "ParDo"
	Flatten    Kind = "Flatten"
	GBK        Kind = "GBK"
	WindowInto Kind = "WindowInto"
	Raw        Kind = "Raw"
	Composite  Kind = "Composite"
)

// Transform is a unit of the pipeline graph. Implementations are immutable
// definitions of what a node does; they carry no binding to concrete
// inputs or outputs. A transform is primitive if it can be executed
// directly and composite if it is defined by expansion into children.
type Transform interface {
	// Kind returns the transform kind used for translator dispatch.
	Kind() Kind
}

// Tag is an opaque stable name for one input or output slot of a
// transform. Uniqueness is per transform, not global.
type Tag string

func (t Tag) String() string {
	return string(t)
}

// Link binds one slot of a transform to a value.
type Link struct {
	Tag   Tag
	Value Value
}

func (l Link) String() string {
	return fmt.Sprintf("%v: %v", l.Tag, l.Value)
}

// Applied is a transform instance bound, within one graph, to concrete
// named inputs and outputs. FullName is the hierarchical display name and
// must be unique within the graph; uniqueness is the graph builder's
// responsibility. Children holds the ordered expansion of a composite
// transform and is nil for primitives.
type Applied struct {
	FullName  string
	Transform Transform
	Inputs    []Link
	Outputs   []Link
	Children  []*Applied
}

// NewApplied returns an applied transform with no bound slots.
func NewApplied(fullName string, t Transform) *Applied {
	return &Applied{FullName: fullName, Transform: t}
}

// AddInput binds an input slot.
func (a *Applied) AddInput(tag Tag, v Value) *Applied {
	a.Inputs = append(a.Inputs, Link{Tag: tag, Value: v})
	return a
}

// AddOutput binds an output slot.
func (a *Applied) AddOutput(tag Tag, v Value) *Applied {
	a.Outputs = append(a.Outputs, Link{Tag: tag, Value: v})
	return a
}

// AddChild appends a child to a composite's expansion, preserving
// composition order.
func (a *Applied) AddChild(c *Applied) *Applied {
	a.Children = append(a.Children, c)
	return a
}

// Composite reports whether this applied transform has an expansion.
func (a *Applied) Composite() bool {
	return len(a.Children) > 0
}

func (a *Applied) String() string {
	return fmt.Sprintf("%v [%v]", a.FullName, a.Transform.Kind())
}

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
	"google.golang.org/protobuf/proto"
)

// RawTransform is a transform that indicates its URN and payload directly.
//
// It is the result of rehydrating transforms from a marshaled pipeline:
// the defining logic may be lost, so there is no expansion. Translating a
// RawTransform emits exactly the URN and payload it was constructed with,
// closing the round trip for graphs that re-enter from wire form.
type RawTransform struct {
	// URN is the wire-level kind identifier.
	URN string
	// Payload is the kind-specific parameter message, or nil when the
	// transform carries a URN only.
	Payload proto.Message
}

// NewRawTransform returns a raw transform with the given URN and optional
// payload. A nil payload means the wire spec carries the URN alone.
func NewRawTransform(urn string, payload proto.Message) *RawTransform {
	return &RawTransform{URN: urn, Payload: payload}
}

// Kind returns Raw.
func (t *RawTransform) Kind() Kind {
	return Raw
}

func (t *RawTransform) String() string {
	return t.URN
}

// Expanded is a transform whose meaning is fully captured by its children:
// it has no spec of its own on the wire. Rehydration produces it for
// composite nodes that were marshaled without a spec.
type Expanded struct{}

// Kind returns Composite.
func (Expanded) Kind() Kind {
	return Composite
}

func (Expanded) String() string {
	return string(Composite)
}

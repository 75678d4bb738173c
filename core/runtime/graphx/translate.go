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

// Package graphx translates between the in-memory pipeline graph and its
// wire representation. Kind-specific payloads are produced by pluggable
// translators, so the core never interprets payload bytes; it only
// establishes that a payload exists, under which URN, and where it sits in
// the graph.
package graphx

import (
	"github.com/flowline-io/flowline/core/graph"
	"github.com/flowline-io/flowline/internal/errors"
	"github.com/flowline-io/flowline/model/wire"
)

// Well-known transform URNs.
const (
	URNImpulse = "flowline:transform:impulse:v1"
	URNRead    = "flowline:transform:read:v1"
	URNParDo   = "flowline:transform:pardo:v1"
	URNFlatten = "flowline:transform:flatten:v1"
	URNGBK     = "flowline:transform:group_by_key:v1"
	URNWindow  = "flowline:transform:window:v1"
)

// Errors of the translation layer, wrapped with context when returned.
var (
	// ErrUnsupportedValue marks an input bound to a value kind with no
	// wire representation.
	ErrUnsupportedValue = errors.New("unsupported value kind")
	// ErrNoTranslator marks a URN request for a kind with no registered
	// translator.
	ErrNoTranslator = errors.New("no translator registered")
	// ErrDuplicateTranslator marks two providers claiming the same kind.
	ErrDuplicateTranslator = errors.New("duplicate translator registration")
)

// Translator produces the wire spec of one transform kind: the URN under
// which the kind travels and, applied to a bound transform, the
// kind-specific payload. Implementations are supplied by providers; the
// translation core dispatches to them by kind and never looks inside the
// payload.
type Translator interface {
	// URN returns the wire-level kind identifier for the transform.
	URN(t graph.Transform) (string, error)

	// Translate produces the spec for one applied transform, resolving
	// referenced components through the given registry.
	Translate(app *graph.Applied, comp Components) (*wire.Spec, error)
}

// Provider contributes translators for the transform kinds it knows.
// Providers are enumerated by the host at process start and handed to
// NewRegistry; there is no hidden discovery.
type Provider interface {
	TransformTranslators() map[graph.Kind]Translator
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() map[graph.Kind]Translator

// TransformTranslators returns f().
func (f ProviderFunc) TransformTranslators() map[graph.Kind]Translator {
	return f()
}

// Registry maps transform kinds to their translators. Built once from all
// contributing providers, immutable afterward, and safe for unlimited
// concurrent lookups.
type Registry struct {
	translators map[graph.Kind]Translator
}

// NewRegistry merges the contributions of the given providers. A kind
// claimed by more than one provider is a configuration error and is
// rejected, so that registry construction is deterministic regardless of
// provider order.
func NewRegistry(providers ...Provider) (*Registry, error) {
	m := make(map[graph.Kind]Translator)
	for _, p := range providers {
		for kind, tr := range p.TransformTranslators() {
			if _, ok := m[kind]; ok {
				return nil, errors.Wrapf(ErrDuplicateTranslator, "kind %v claimed twice", kind)
			}
			m[kind] = tr
		}
	}
	return &Registry{translators: m}, nil
}

// Lookup returns the translator for the given kind, if any. Absence is not
// an error; callers decide whether it is fatal.
func (r *Registry) Lookup(kind graph.Kind) (Translator, bool) {
	tr, ok := r.translators[kind]
	return tr, ok
}

// URNFor returns the wire-level kind identifier for the given transform.
// Unlike translation, where a missing translator merely omits the spec,
// this entry point promises a URN must exist: an unregistered kind is an
// error naming the kind for diagnosis.
func (r *Registry) URNFor(t graph.Transform) (string, error) {
	tr, ok := r.Lookup(t.Kind())
	if !ok {
		return "", errors.Wrapf(ErrNoTranslator, "no URN for transform kind %v", t.Kind())
	}
	return tr.URN(t)
}

// Components resolves graph components to wire ids. It is shared across
// the whole translation pass and threaded through every call, so that
// edges and nested nodes referenced from several places resolve to the
// same id.
type Components interface {
	// RegisterCollection resolves or allocates the wire id for a
	// collection. Idempotent within one graph.
	RegisterCollection(c *graph.Collection) (string, error)

	// TransformID returns the wire id of an already-registered applied
	// transform. It fails when called out of dependency order, before the
	// transform was registered.
	TransformID(app *graph.Applied) (string, error)
}

// Translate produces the wire node for one applied transform.
//
// Children must already be translated and registered: translation proceeds
// post-order over the graph, so a composite references its children's
// established ids in composition order. A child not yet registered is a
// resolution error, never a silently missing id. Translate does not assign
// the node's own wire id or register it; that is the caller's step.
//
// Inputs bound to a value kind other than *graph.Collection fail with
// ErrUnsupportedValue. Outputs of such kinds are silently skipped instead,
// to tolerate partially constructed output sets.
func Translate(app *graph.Applied, reg *Registry, comp Components) (*wire.Node, error) {
	return translate(app, app.Children, reg, comp)
}

// TranslateLeaf produces the wire node for one applied transform as a
// primitive, without children.
func TranslateLeaf(app *graph.Applied, reg *Registry, comp Components) (*wire.Node, error) {
	return translate(app, nil, reg, comp)
}

func translate(app *graph.Applied, children []*graph.Applied, reg *Registry, comp Components) (*wire.Node, error) {
	inputs := make(map[string]string)
	for _, in := range app.Inputs {
		col, ok := in.Value.(*graph.Collection)
		if !ok {
			return nil, errors.Wrapf(ErrUnsupportedValue, "input %v of %v has value type %T", in.Tag, app.FullName, in.Value)
		}
		id, err := comp.RegisterCollection(col)
		if err != nil {
			return nil, errors.WithContextf(err, "registering input %v of %v", in.Tag, app.FullName)
		}
		inputs[wireTag(in.Tag)] = id
	}

	outputs := make(map[string]string)
	for _, out := range app.Outputs {
		col, ok := out.Value.(*graph.Collection)
		if !ok {
			// Tolerated: the slot has no wire representation yet.
			continue
		}
		id, err := comp.RegisterCollection(col)
		if err != nil {
			return nil, errors.WithContextf(err, "registering output %v of %v", out.Tag, app.FullName)
		}
		outputs[wireTag(out.Tag)] = id
	}

	var subtransforms []string
	for _, c := range children {
		id, err := comp.TransformID(c)
		if err != nil {
			return nil, errors.WithContextf(err, "resolving child %v of %v", c.FullName, app.FullName)
		}
		subtransforms = append(subtransforms, id)
	}

	node := &wire.Node{
		UniqueName:    app.FullName,
		Inputs:        inputs,
		Outputs:       outputs,
		Subtransforms: subtransforms,
	}

	if tr, ok := reg.Lookup(app.Transform.Kind()); ok {
		spec, err := tr.Translate(app, comp)
		if err != nil {
			return nil, errors.WithContextf(err, "translating payload of %v", app.FullName)
		}
		node.Spec = spec
	}
	return node, nil
}

// wireTag maps a slot tag to its wire string form.
func wireTag(t graph.Tag) string {
	return string(t)
}

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
	"github.com/flowline-io/flowline/core/util/protox"
	"github.com/flowline-io/flowline/internal/errors"
	"github.com/flowline-io/flowline/model/wire"
)

// RawTranslator uses the explicit URN and payload of a
// graph.RawTransform. It needs no kind-specific knowledge: it emits
// exactly what the transform was constructed with, which makes
// marshal-unmarshal-marshal lossless for URN and payload bytes.
type RawTranslator struct{}

// URN returns the transform's stored URN unchanged.
func (RawTranslator) URN(t graph.Transform) (string, error) {
	raw, err := asRaw(t)
	if err != nil {
		return "", err
	}
	return raw.URN, nil
}

// Translate builds a spec from the stored URN and, if present, the payload
// serialized as a self-describing blob. An absent payload yields a spec
// carrying the URN only.
func (RawTranslator) Translate(app *graph.Applied, _ Components) (*wire.Spec, error) {
	raw, err := asRaw(app.Transform)
	if err != nil {
		return nil, err
	}
	spec := &wire.Spec{URN: raw.URN}
	if raw.Payload != nil {
		data, err := protox.EncodeAnyBytes(raw.Payload)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding payload of %v", raw.URN)
		}
		spec.Payload = data
	}
	return spec, nil
}

func asRaw(t graph.Transform) (*graph.RawTransform, error) {
	raw, ok := t.(*graph.RawTransform)
	if !ok {
		return nil, errors.Errorf("transform of kind %v is %T, not a raw transform", t.Kind(), t)
	}
	return raw, nil
}

// URNOnlyTranslator translates a kind to a fixed URN with no payload, for
// primitives whose wire identity is fully described by the URN.
type URNOnlyTranslator string

// URN returns the fixed URN.
func (u URNOnlyTranslator) URN(graph.Transform) (string, error) {
	return string(u), nil
}

// Translate returns a spec carrying the fixed URN only.
func (u URNOnlyTranslator) Translate(*graph.Applied, Components) (*wire.Spec, error) {
	return &wire.Spec{URN: string(u)}, nil
}

// DefaultProviders returns the translator providers built into the SDK:
// the raw translator plus the payload-free standard primitives. Kinds
// whose payload encoding lives elsewhere (Read, ParDo, WindowInto) are
// contributed by their own providers.
func DefaultProviders() []Provider {
	return []Provider{
		ProviderFunc(func() map[graph.Kind]Translator {
			return map[graph.Kind]Translator{
				graph.Raw:     RawTranslator{},
				graph.Impulse: URNOnlyTranslator(URNImpulse),
				graph.Flatten: URNOnlyTranslator(URNFlatten),
				graph.GBK:     URNOnlyTranslator(URNGBK),
			}
		}),
	}
}

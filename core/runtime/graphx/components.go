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
	"fmt"
	"sync"

	"github.com/flowline-io/flowline/core/graph"
	"github.com/flowline-io/flowline/internal/errors"
)

// ErrUnregistered marks an id lookup for a component that was never
// registered, typically a sign that translation ran out of dependency
// order.
var ErrUnregistered = errors.New("component not registered")

// ComponentSet is the id space of one translation pass. It allocates wire
// ids for collections idempotently and remembers the ids of registered
// transforms. Safe for concurrent use, so multiple subgraphs may be
// translated in parallel against one set.
type ComponentSet struct {
	mu          sync.Mutex
	collections map[*graph.Collection]string
	transforms  map[*graph.Applied]string
}

// NewComponents returns an empty component set.
func NewComponents() *ComponentSet {
	return &ComponentSet{
		collections: make(map[*graph.Collection]string),
		transforms:  make(map[*graph.Applied]string),
	}
}

// RegisterCollection resolves or allocates the wire id for a collection.
// Registering the same collection twice returns the same id.
func (s *ComponentSet) RegisterCollection(c *graph.Collection) (string, error) {
	if c == nil {
		return "", errors.New("nil collection")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.collections[c]; ok {
		return id, nil
	}
	id := fmt.Sprintf("c%v", len(s.collections))
	s.collections[c] = id
	return id, nil
}

// RegisterTransform allocates the wire id for an applied transform.
// Registering the same transform twice returns the same id.
func (s *ComponentSet) RegisterTransform(app *graph.Applied) (string, error) {
	if app == nil {
		return "", errors.New("nil transform")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.transforms[app]; ok {
		return id, nil
	}
	id := fmt.Sprintf("t%v", len(s.transforms))
	s.transforms[app] = id
	return id, nil
}

// TransformID returns the wire id of an already-registered transform. A
// transform that was never registered fails loudly rather than yielding a
// garbage id.
func (s *ComponentSet) TransformID(app *graph.Applied) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.transforms[app]; ok {
		return id, nil
	}
	return "", errors.Wrapf(ErrUnregistered, "transform %v has no id", app.FullName)
}

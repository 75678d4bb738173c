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

package pipelinex

import (
	"github.com/flowline-io/flowline/model/wire"
)

// Bounded returns true iff all collections are bounded.
func Bounded(p *wire.Pipeline) bool {
	for _, col := range p.GetComponents().GetCollections() {
		if !col.Bounded {
			return false
		}
	}
	return true
}

// URNs returns the distinct spec URNs appearing in the pipeline.
func URNs(p *wire.Pipeline) []string {
	seen := make(map[string]bool)
	var ret []string
	for _, id := range TopologicalSort(p.GetComponents().GetTransforms(), allIDs(p.GetComponents().GetTransforms())) {
		t := p.GetComponents().GetTransforms()[id]
		urn := t.GetSpec().GetURN()
		if urn == "" || seen[urn] {
			continue
		}
		seen[urn] = true
		ret = append(ret, urn)
	}
	return ret
}

func allIDs(xforms map[string]*wire.Node) []string {
	ids := make([]string, 0, len(xforms))
	for id := range xforms {
		ids = append(ids, id)
	}
	return ids
}

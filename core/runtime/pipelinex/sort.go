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
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/flowline-io/flowline/model/wire"
)

// TopologicalSort returns the given ids in dependency order: a transform
// producing a collection precedes every given transform consuming it. The
// ids may name composites, whose input/output maps must already be
// computed. The result is deterministic for a given input set.
func TopologicalSort(xforms map[string]*wire.Node, ids []string) []string {
	if len(ids) == 0 {
		return ids
	}

	ordered := make(idSorted, len(ids))
	copy(ordered, ids)
	sort.Sort(ordered)

	// Map each collection to the candidate transform producing it.
	producer := make(map[string]string)
	for _, id := range ordered {
		for _, col := range xforms[id].Outputs {
			producer[col] = id
		}
	}

	ret := make([]string, 0, len(ordered))
	emitted := make(map[string]bool)
	visiting := make(map[string]bool)
	var emit func(id string)
	emit = func(id string) {
		if emitted[id] || visiting[id] {
			return
		}
		visiting[id] = true
		for _, col := range sortedInputs(xforms[id]) {
			if p, ok := producer[col]; ok && p != id {
				emit(p)
			}
		}
		visiting[id] = false
		emitted[id] = true
		ret = append(ret, id)
	}
	for _, id := range ordered {
		emit(id)
	}
	return ret
}

func sortedInputs(t *wire.Node) []string {
	cols := make([]string, 0, len(t.Inputs))
	for _, col := range t.Inputs {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func separateCompsAndLeaves(xforms map[string]*wire.Node) (comp, leaf []string) {
	var cs, ls idSorted
	for id, t := range xforms {
		if len(t.Subtransforms) == 0 {
			ls = append(ls, id)
		} else {
			cs = append(cs, id)
		}
	}
	// Sort to make renaming deterministic.
	sort.Sort(cs)
	sort.Sort(ls)
	return []string(cs), []string(ls)
}

func findFreeName(seen map[string]bool, name string) string {
	if !seen[name] {
		return name
	}
	for i := 1; ; i++ {
		next := fmt.Sprintf("%v'%v", name, i)
		if !seen[next] {
			return next
		}
	}
}

type idSorted []string

func (s idSorted) Len() int {
	return len(s)
}
func (s idSorted) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Generated ids are "t#" or "c#" and should sort numerically by suffix.
// Ids that do not follow this format compare lexicographically.
var idParseExp = regexp.MustCompile(`(\D*)(\d*)`)

func (s idSorted) Less(i, j int) bool {
	iM := idParseExp.FindStringSubmatch(s[i])
	jM := idParseExp.FindStringSubmatch(s[j])
	if iM == nil || jM == nil {
		return s[i] < s[j]
	}
	if iM[1] < jM[1] {
		return true
	}
	if iM[1] > jM[1] {
		return false
	}
	// Prefixes match, compare the numeric suffixes.
	iN, _ := strconv.Atoi(iM[2])
	jN, _ := strconv.Atoi(jM[2])
	return iN < jN
}

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

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flowline-io/flowline/core/runtime/pipelinex"
	"github.com/flowline-io/flowline/model/wire"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <pipeline.json>",
	Short: "Print the transform tree of a marshaled pipeline",
	RunE:  describeFn,
	Args:  cobra.ExactArgs(1),
}

func describeFn(cmd *cobra.Command, args []string) error {
	p, err := readPipeline(args[0])
	if err != nil {
		return err
	}
	p, err = pipelinex.Normalize(p)
	if err != nil {
		return err
	}

	if output != "text" {
		data, err := render(p)
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	xforms := p.GetComponents().GetTransforms()
	for _, id := range p.Roots {
		printTree(cmd, xforms, id, 0)
	}
	return nil
}

func printTree(cmd *cobra.Command, xforms map[string]*wire.Node, id string, depth int) {
	t, ok := xforms[id]
	if !ok {
		cmd.Printf("%v%v: <missing>\n", strings.Repeat("  ", depth), id)
		return
	}

	line := fmt.Sprintf("%v%v: %v", strings.Repeat("  ", depth), id, t.UniqueName)
	if urn := t.GetSpec().GetURN(); urn != "" {
		line += fmt.Sprintf(" [%v]", urn)
	}
	if len(t.Inputs) > 0 {
		line += fmt.Sprintf(" <- %v", slotList(t.Inputs))
	}
	if len(t.Outputs) > 0 {
		line += fmt.Sprintf(" -> %v", slotList(t.Outputs))
	}
	cmd.Println(line)

	for _, sid := range t.Subtransforms {
		printTree(cmd, xforms, sid, depth+1)
	}
}

func slotList(slots map[string]string) string {
	tags := make([]string, 0, len(slots))
	for tag := range slots {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, fmt.Sprintf("%v:%v", tag, slots[tag]))
	}
	return strings.Join(parts, " ")
}

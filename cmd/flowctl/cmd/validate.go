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
	"github.com/flowline-io/flowline/core/runtime/pipelinex"
	"github.com/flowline-io/flowline/internal/errors"
	"github.com/flowline-io/flowline/model/wire"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pipeline.json>",
	Short: "Check a marshaled pipeline for dangling references",
	RunE:  validateFn,
	Args:  cobra.ExactArgs(1),
}

func validateFn(cmd *cobra.Command, args []string) error {
	p, err := readPipeline(args[0])
	if err != nil {
		return err
	}
	if err := validatePipeline(p); err != nil {
		return errors.WithContextf(err, "validating %v", args[0])
	}
	if _, err := pipelinex.Normalize(p); err != nil {
		return errors.WithContextf(err, "validating %v", args[0])
	}

	cmd.Printf("OK: %v transforms, %v collections\n",
		len(p.GetComponents().GetTransforms()), len(p.GetComponents().GetCollections()))
	return nil
}

// validatePipeline checks that every reference in the pipeline resolves:
// slot references to collections, subtransform references to transforms,
// and that no transform is claimed by two composites.
func validatePipeline(p *wire.Pipeline) error {
	xforms := p.GetComponents().GetTransforms()
	cols := p.GetComponents().GetCollections()

	parent := make(map[string]string)
	for id, t := range xforms {
		for tag, col := range t.Inputs {
			if _, ok := cols[col]; !ok {
				return errors.Errorf("transform %v input %v references unknown collection %v", id, tag, col)
			}
		}
		for tag, col := range t.Outputs {
			if _, ok := cols[col]; !ok {
				return errors.Errorf("transform %v output %v references unknown collection %v", id, tag, col)
			}
		}
		for _, sid := range t.Subtransforms {
			if _, ok := xforms[sid]; !ok {
				return errors.Errorf("transform %v references unknown subtransform %v", id, sid)
			}
			if prev, ok := parent[sid]; ok {
				return errors.Errorf("transform %v claimed by both %v and %v", sid, prev, id)
			}
			parent[sid] = id
		}
	}
	for _, id := range p.Roots {
		if _, ok := xforms[id]; !ok {
			return errors.Errorf("unknown root transform %v", id)
		}
	}
	return nil
}

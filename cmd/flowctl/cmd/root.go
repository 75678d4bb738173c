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

// Package cmd contains the flowctl subcommands.
package cmd

import (
	"encoding/json"
	"os"

	"github.com/flowline-io/flowline/model/wire"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// Root is the root flowctl command.
	Root = &cobra.Command{
		Use:   "flowctl",
		Short: "flowctl inspects and validates marshaled pipelines",
	}

	output string
)

func init() {
	Root.AddCommand(describeCmd, validateCmd)
	Root.PersistentFlags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
}

// readPipeline loads a marshaled pipeline from a JSON file.
func readPipeline(filename string) (*wire.Pipeline, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var p wire.Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// render marshals v in the selected output format. YAML rendering goes
// through JSON first so both formats use the wire field names.
func render(v interface{}) ([]byte, error) {
	switch output {
	case "yaml":
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
		return yaml.Marshal(generic)
	default:
		return json.MarshalIndent(v, "", "  ")
	}
}

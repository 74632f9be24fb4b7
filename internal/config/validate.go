// CUE schema validation code
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema/game.cue
var builtinSchema []byte

// ValidateWithCue validates a YAML configuration file against the #Game
// definition of a CUE schema file. An empty cueFile uses the built-in schema.
func ValidateWithCue(configFile, cueFile string) error {
	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	schemaBytes := builtinSchema
	if cueFile != "" {
		schemaBytes, err = os.ReadFile(cueFile)
		if err != nil {
			return fmt.Errorf("cannot read CUE schema: %w", err)
		}
	}
	return validateBytes(configFile, yamlBytes, schemaBytes)
}

func validateBytes(name string, yamlBytes, schemaBytes []byte) error {
	ctx := cuecontext.New()

	file, err := yaml.Extract(name, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(file)
	if configVal.Err() != nil {
		return fmt.Errorf("cannot build config value: %w", configVal.Err())
	}

	schemaVal := ctx.CompileBytes(schemaBytes)
	if schemaVal.Err() != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", schemaVal.Err())
	}
	def := schemaVal.LookupPath(cue.ParsePath("#Game"))
	if !def.Exists() {
		return fmt.Errorf("schema has no #Game definition")
	}

	final := def.Unify(configVal)
	if err := final.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

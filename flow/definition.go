package flow

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/transflow/errors"
	"github.com/kbukum/transflow/validation"
)

// Definition is the declarative form of a pipeline. Top-level Publish and
// Monadic are defaults that each step may override.
//
//	name: signup
//	publish: false
//	steps:
//	  - name: preprocess
//	    with: preprocess_input
//	  - name: validate
//	    with: validate_input
//	  - name: persist
//	    with: persist_input
//	    publish: true
type Definition struct {
	Name    string    `yaml:"name" mapstructure:"name" validate:"required"`
	Publish bool      `yaml:"publish" mapstructure:"publish"`
	Monadic bool      `yaml:"monadic" mapstructure:"monadic"`
	Steps   []StepDef `yaml:"steps" mapstructure:"steps" validate:"min=1,dive"`
}

// StepDef declares one step. With defaults to Name.
type StepDef struct {
	Name    string `yaml:"name" mapstructure:"name" validate:"required"`
	With    string `yaml:"with" mapstructure:"with"`
	Publish *bool  `yaml:"publish" mapstructure:"publish"`
	Monadic *bool  `yaml:"monadic" mapstructure:"monadic"`
}

// LoadDefinition reads a YAML definition from path. Unknown keys are
// rejected.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flow: reading %s: %w", path, err)
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes a YAML definition.
func ParseDefinition(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var d Definition
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("flow: parsing definition: %w", err)
	}
	return &d, nil
}

// stepIdentifier is the form of step names and handler keys. Step names
// prefix event names, so they must not contain spaces.
var stepIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks required fields, step identifiers and step name
// uniqueness.
func (d *Definition) Validate() error {
	if err := validation.Validate(d); err != nil {
		return errors.InvalidArgument("invalid pipeline definition").WithCause(err)
	}
	v := validation.New()
	for i, s := range d.Steps {
		v.Matches(fmt.Sprintf("steps[%d].name", i), s.Name, stepIdentifier).
			Matches(fmt.Sprintf("steps[%d].with", i), s.With, stepIdentifier)
	}
	if err := v.Validate(); err != nil {
		return errors.InvalidArgument("invalid pipeline definition").WithCause(err)
	}
	seen := make(map[string]bool, len(d.Steps))
	for _, s := range d.Steps {
		if seen[s.Name] {
			return errors.DuplicateStep(s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Build validates d and builds it with handlers from r. The definition
// name is applied before opts.
func (d *Definition) Build(r Resolver, opts ...Option) (*Pipeline, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	b := NewBuilder(r).Publish(d.Publish).Monadic(d.Monadic)
	for _, s := range d.Steps {
		b.Step(s.Name, s.options()...)
	}
	return b.Build(append([]Option{WithName(d.Name)}, opts...)...)
}

func (s StepDef) options() []StepOption {
	var opts []StepOption
	if s.With != "" {
		opts = append(opts, With(s.With))
	}
	if s.Publish != nil {
		if *s.Publish {
			opts = append(opts, Publishing())
		} else {
			opts = append(opts, Silent())
		}
	}
	if s.Monadic != nil {
		if *s.Monadic {
			opts = append(opts, TwoTrack())
		} else {
			opts = append(opts, PlainResult())
		}
	}
	return opts
}

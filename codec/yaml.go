// SPDX-License-Identifier: MIT
// Package: tagged/codec
//
// yaml.go — YAML envelope: {index, type, value}.

package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tagged/variant"
)

type yamlOut struct {
	Index int    `yaml:"index"`
	Type  string `yaml:"type,omitempty"`
	Value any    `yaml:"value"`
}

type yamlIn struct {
	Index *int      `yaml:"index"`
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
}

type yamlFormat struct{}

// MarshalYAML encodes v as a YAML envelope.
func MarshalYAML(v *variant.Variant) ([]byte, error) { return yamlFormat{}.Marshal(v) }

// UnmarshalYAML decodes a YAML envelope into a variant over l.
func UnmarshalYAML(l *variant.TypeList, data []byte) (*variant.Variant, error) {
	return yamlFormat{}.Unmarshal(l, data)
}

func (yamlFormat) Marshal(v *variant.Variant) ([]byte, error) {
	p, err := payloadOf(v)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(yamlOut{Index: p.index, Type: p.name, Value: p.value})
}

func (yamlFormat) Unmarshal(l *variant.TypeList, data []byte) (*variant.Variant, error) {
	var env yamlIn
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if env.Index == nil {
		return nil, fmt.Errorf("%w: missing index", ErrMalformedEnvelope)
	}
	present := !env.Value.IsZero()

	return rebuild(l, *env.Index, env.Type, present, func(dst any) error {
		return env.Value.Decode(dst)
	})
}

package decl

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"derive-generator/internal/common"
)

// StringOrArray accepts either a single string or a list of strings.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return errors.Newf("line %d: expected string or array, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// yamlFile is the on-disk shape of a declaration file.
type yamlFile struct {
	Version      string            `yaml:"version"`
	Package      string            `yaml:"package"`
	Imports      []string          `yaml:"imports,omitempty"`
	Declarations []yamlDeclaration `yaml:"declarations"`
}

type yamlDeclaration struct {
	Name       string          `yaml:"name"`
	Kind       string          `yaml:"kind"`
	Repr       string          `yaml:"repr,omitempty"`
	Derive     StringOrArray   `yaml:"derive,omitempty"`
	TypeParams []yamlTypeParam `yaml:"type_params,omitempty"`
	Imports    []string        `yaml:"imports,omitempty"`
	Fields     []yamlField     `yaml:"fields,omitempty"`
	Variants   []yamlVariant   `yaml:"variants,omitempty"`

	line, column int
}

// UnmarshalYAML records the node position alongside the decoded value.
func (d *yamlDeclaration) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlDeclaration

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*d = yamlDeclaration(p)
	d.line, d.column = node.Line, node.Column

	return nil
}

type yamlTypeParam struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint,omitempty"`
}

type yamlField struct {
	Name        string           `yaml:"name,omitempty"`
	Selector    string           `yaml:"selector,omitempty"`
	Type        string           `yaml:"type"`
	Underlying  string           `yaml:"underlying,omitempty"`
	Annotations []yamlAnnotation `yaml:"annotations,omitempty"`

	line, column int
}

// UnmarshalYAML records the node position alongside the decoded value.
func (f *yamlField) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlField

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*f = yamlField(p)
	f.line, f.column = node.Line, node.Column

	return nil
}

type yamlVariant struct {
	Name        string           `yaml:"name"`
	TypeName    string           `yaml:"type_name,omitempty"`
	Payload     string           `yaml:"payload,omitempty"`
	Fields      []yamlField      `yaml:"fields,omitempty"`
	Annotations []yamlAnnotation `yaml:"annotations,omitempty"`

	line, column int
}

// UnmarshalYAML records the node position alongside the decoded value.
func (v *yamlVariant) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlVariant

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*v = yamlVariant(p)
	v.line, v.column = node.Line, node.Column

	return nil
}

// yamlAnnotation is a scalar such as "default(value=1)" with its position.
type yamlAnnotation struct {
	text         string
	line, column int
}

// UnmarshalYAML implements custom YAML unmarshaling for annotations.
func (a *yamlAnnotation) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: annotation must be a string", node.Line)
	}

	a.text = node.Value
	a.line, a.column = node.Line, node.Column

	return nil
}

// MarshalYAML outputs the annotation text.
func (a yamlAnnotation) MarshalYAML() (any, error) {
	return a.text, nil
}

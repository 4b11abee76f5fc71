package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the template in canonical S-expression syntax.
//
// With indent <= 0 the whole form is written on one line. Otherwise every
// tag that has a tag child places each child on its own line, indented by
// indent spaces per level. Parsing the output yields a tree equal to t.
func (t *Template) Format(_ context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	writeNode(&sb, t.root, indent, 0)
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatJSON writes the template tree as JSON.
func (t *Template) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(dumpNode(t.root), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(dumpNode(t.root))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the template tree as YAML.
func (t *Template) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, dumpNode(t.root), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

func writeNode(sb *strings.Builder, n Node, indent, level int) {
	t, ok := n.(*Tag)
	if !ok {
		sb.WriteString(n.String())

		return
	}

	sb.WriteByte('(')
	sb.WriteString(t.Name)

	if t.Attributes.Len() > 0 {
		sb.WriteString(" (@")

		for k, v := range t.Attributes.All() {
			sb.WriteString(" (")
			sb.WriteString(k)
			sb.WriteByte(' ')
			sb.WriteString(v.String())
			sb.WriteByte(')')
		}

		sb.WriteByte(')')
	}

	multiline := indent > 0 && hasTagChild(t)

	for _, child := range t.Children {
		if multiline {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", indent*(level+1)))
		} else {
			sb.WriteByte(' ')
		}

		writeNode(sb, child, indent, level+1)
	}

	sb.WriteByte(')')
}

func hasTagChild(t *Tag) bool {
	for _, child := range t.Children {
		if _, ok := child.(*Tag); ok {
			return true
		}
	}

	return false
}

// isBareAtom reports whether s lexes back as a single plain atom.
func isBareAtom(s string) bool {
	return s != "" && !strings.ContainsFunc(s, isDelimiter) && !isVariable(s)
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// nodeDump is the JSON and YAML shape of a node.
type nodeDump struct {
	Kind       string          `json:"kind"                 yaml:"kind"`
	Name       string          `json:"name,omitempty"       yaml:"name,omitempty"`
	Text       *string         `json:"text,omitempty"       yaml:"text,omitempty"`
	Quoted     bool            `json:"quoted,omitempty"     yaml:"quoted,omitempty"`
	Attributes []attributeDump `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Children   []nodeDump      `json:"children,omitempty"   yaml:"children,omitempty"`
	Pos        Position        `json:"pos"                  yaml:"pos"`
}

type attributeDump struct {
	Key   string   `json:"key"   yaml:"key"`
	Value nodeDump `json:"value" yaml:"value"`
}

func dumpNode(n Node) nodeDump {
	switch n := n.(type) {
	case *Tag:
		d := nodeDump{Kind: "tag", Name: n.Name, Pos: n.Pos}

		for k, v := range n.Attributes.All() {
			d.Attributes = append(d.Attributes, attributeDump{Key: k, Value: dumpNode(v)})
		}

		for _, child := range n.Children {
			d.Children = append(d.Children, dumpNode(child))
		}

		return d

	case *Literal:
		text := n.Text

		return nodeDump{Kind: "literal", Text: &text, Quoted: n.Quoted, Pos: n.Pos}

	case *Variable:
		return nodeDump{Kind: "variable", Name: n.Name, Pos: n.Pos}

	default:
		return nodeDump{Kind: "unknown"}
	}
}

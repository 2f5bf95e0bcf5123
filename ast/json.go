package ast

import (
	"encoding/json"
	"io"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(prog *Program) error {
	text, err := e.MarshalText(prog)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText(prog *Program) ([]byte, error) {
	return json.MarshalIndent(programToJSON(prog), "", "  ")
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Pos      *jsonPos    `json:"pos,omitempty"`
	Type     string      `json:"type,omitempty"`
	Name     string      `json:"name,omitempty"`
	Op       string      `json:"op,omitempty"`
	Text     string      `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonPos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func programToJSON(prog *Program) *jsonNode {
	jn := &jsonNode{Kind: "program"}
	for _, s := range prog.Stmts {
		jn.Children = append(jn.Children, nodeToJSON(s))
	}
	return jn
}

func nodeToJSON(n Node) *jsonNode {
	jn := &jsonNode{}
	if p := n.Pos(); p.Line != 0 {
		jn.Pos = &jsonPos{Line: p.Line, Column: p.Column}
	}

	switch n := n.(type) {
	case *Decl:
		jn.Kind = "decl"
		jn.Type = n.Type
		jn.Name = n.Name
	case *Assign:
		jn.Kind = "assign"
		jn.Name = n.Name
		jn.Children = []*jsonNode{nodeToJSON(n.Value)}
	case *Binary:
		jn.Kind = "binary"
		jn.Op = n.Op
		jn.Children = []*jsonNode{nodeToJSON(n.Left), nodeToJSON(n.Right)}
	case *Number:
		jn.Kind = "number"
		jn.Text = n.Text
	case *Var:
		jn.Kind = "var"
		jn.Name = n.Name
	}
	return jn
}

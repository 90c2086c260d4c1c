// Package stmt provides a concrete structured statement tree for the
// structuring engine: raw statement text, labeled loops, conditionals,
// break and continue, and a renderer producing Go-like source.
package stmt

import (
	"github.com/l3aro/go-cfg-structure/pkg/cfg"
)

// Kind represents the type of a statement.
type Kind string

const (
	KindRaw      Kind = "raw"      // Opaque statement text
	KindLoop     Kind = "loop"     // Unconditional labeled loop
	KindIf       Kind = "if"       // Conditional with optional else
	KindBreak    Kind = "break"    // Leave a labeled loop
	KindContinue Kind = "continue" // Next iteration of a labeled loop
)

// Stmt is one structured statement.
type Stmt struct {
	Kind  Kind      `json:"kind" msgpack:"kind"`
	Text  string    `json:"text,omitempty" msgpack:"text,omitempty"`   // Raw statement text
	Cond  string    `json:"cond,omitempty" msgpack:"cond,omitempty"`   // If condition
	Label cfg.Label `json:"label,omitempty" msgpack:"label,omitempty"` // Loop header for loop/break/continue
	Body  Block     `json:"body,omitempty" msgpack:"body,omitempty"`   // Loop body or then branch
	Else  Block     `json:"else,omitempty" msgpack:"else,omitempty"`   // Else branch
}

// Block is an ordered statement sequence. The nil Block is empty.
type Block []Stmt

// Len returns the number of top-level statements.
func (b Block) Len() int {
	return len(b)
}

// Concat returns b followed by o without modifying either.
func (b Block) Concat(o Block) Block {
	if len(o) == 0 {
		return b
	}
	if len(b) == 0 {
		return o
	}
	out := make(Block, 0, len(b)+len(o))
	out = append(out, b...)
	return append(out, o...)
}

// Raw returns a block of raw statements, one per text.
func Raw(texts ...string) Block {
	if len(texts) == 0 {
		return nil
	}
	b := make(Block, len(texts))
	for i, t := range texts {
		b[i] = Stmt{Kind: KindRaw, Text: t}
	}
	return b
}

// Texts returns the raw statement texts of b in order, descending into
// nested blocks.
func (b Block) Texts() []string {
	var out []string
	for _, s := range b {
		switch s.Kind {
		case KindRaw:
			out = append(out, s.Text)
		case KindLoop, KindIf:
			out = append(out, s.Body.Texts()...)
			out = append(out, s.Else.Texts()...)
		}
	}
	return out
}

// Emitter builds Blocks for the structuring engine, with string conditions.
type Emitter struct{}

func (Emitter) Break(header cfg.Label) Block {
	return Block{{Kind: KindBreak, Label: header}}
}

func (Emitter) Continue(header cfg.Label) Block {
	return Block{{Kind: KindContinue, Label: header}}
}

func (Emitter) Loop(header cfg.Label, body Block) Block {
	return Block{{Kind: KindLoop, Label: header, Body: body}}
}

func (Emitter) If(cond string, then, els Block) Block {
	return Block{{Kind: KindIf, Cond: cond, Body: then, Else: els}}
}

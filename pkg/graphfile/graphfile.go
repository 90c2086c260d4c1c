// Package graphfile reads goto-style functions from YAML or JSON documents
// and builds their control flow graphs.
//
// A document holds one function at the top level or a list under
// "functions". Each block has a name, optional statements, and at most one
// terminator: "goto: <block>", or "if: <cond>" with "then" and "else". A
// block without a terminator ends the function.
//
//	name: count
//	blocks:
//	  - name: head
//	    stmts: ["i := 0"]
//	    goto: test
//	  - name: test
//	    if: i < n
//	    then: body
//	    else: done
//	  - name: body
//	    stmts: ["i++"]
//	    goto: test
//	  - name: done
//	    stmts: ["return i"]
package graphfile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l3aro/go-cfg-structure/pkg/cfg"
	"github.com/l3aro/go-cfg-structure/pkg/stmt"
)

// ErrNoFunctions is returned for documents without any function.
var ErrNoFunctions = errors.New("no functions in document")

// BlockSpec is one block as written in a document.
type BlockSpec struct {
	Name  string   `yaml:"name" json:"name"`
	Stmts []string `yaml:"stmts,omitempty" json:"stmts,omitempty"`
	Goto  string   `yaml:"goto,omitempty" json:"goto,omitempty"`
	If    string   `yaml:"if,omitempty" json:"if,omitempty"`
	Then  string   `yaml:"then,omitempty" json:"then,omitempty"`
	Else  string   `yaml:"else,omitempty" json:"else,omitempty"`
}

// FunctionSpec is one function as written in a document.
type FunctionSpec struct {
	Name   string      `yaml:"name" json:"name"`
	Entry  string      `yaml:"entry,omitempty" json:"entry,omitempty"` // Defaults to the first block
	Blocks []BlockSpec `yaml:"blocks" json:"blocks"`
}

// Document is the top level of a graph file.
type Document struct {
	FunctionSpec `yaml:",inline"`
	Functions    []FunctionSpec `yaml:"functions,omitempty" json:"functions,omitempty"`
}

// Function is a built function graph.
type Function struct {
	Name  string
	Graph *cfg.CFG[stmt.Block, string]
	Names map[cfg.Label]string // Block name of every allocated label
	Spec  FunctionSpec
}

// Parse decodes a YAML or JSON document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding graph document: %w", err)
	}
	return &doc, nil
}

// ParseFile reads and decodes the document at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Specs returns the functions of the document in order.
func (d *Document) Specs() []FunctionSpec {
	specs := make([]FunctionSpec, 0, len(d.Functions)+1)
	if len(d.Blocks) > 0 {
		specs = append(specs, d.FunctionSpec)
	}
	return append(specs, d.Functions...)
}

// Build builds every function of the document.
func (d *Document) Build() ([]*Function, error) {
	specs := d.Specs()
	if len(specs) == 0 {
		return nil, ErrNoFunctions
	}

	fns := make([]*Function, 0, len(specs))
	for i := range specs {
		fn, err := specs[i].Build()
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// Build allocates a label per block name (in definition order, then names
// only referenced by jumps) and adds every defined block. A name that is
// referenced but never defined gets a label without a block.
func (f *FunctionSpec) Build() (*Function, error) {
	if len(f.Blocks) == 0 {
		return nil, fmt.Errorf("function %q has no blocks", f.Name)
	}

	names := make(map[cfg.Label]string)
	labels := make(map[string]cfg.Label)

	g, err := cfg.Build(func(b *cfg.Builder[stmt.Block, string]) (cfg.Label, error) {
		label := func(name string) cfg.Label {
			if l, ok := labels[name]; ok {
				return l
			}
			l := b.NewLabel()
			labels[name] = l
			names[l] = name
			return l
		}

		for _, blk := range f.Blocks {
			if blk.Name == "" {
				return 0, fmt.Errorf("function %q: block without a name", f.Name)
			}
			if _, dup := labels[blk.Name]; dup {
				return 0, fmt.Errorf("function %q: duplicate block %q", f.Name, blk.Name)
			}
			label(blk.Name)
		}

		for _, blk := range f.Blocks {
			term, err := blk.terminator(label)
			if err != nil {
				return 0, fmt.Errorf("function %q: %w", f.Name, err)
			}
			b.AddBlock(labels[blk.Name], stmt.Raw(blk.Stmts...), term)
		}

		entry := f.Entry
		if entry == "" {
			entry = f.Blocks[0].Name
		}
		return label(entry), nil
	})
	if err != nil {
		return nil, err
	}

	return &Function{
		Name:  f.Name,
		Graph: g,
		Names: names,
		Spec:  *f,
	}, nil
}

func (b *BlockSpec) terminator(label func(string) cfg.Label) (cfg.Terminator[string], error) {
	switch {
	case b.If != "" && b.Goto != "":
		return cfg.Terminator[string]{}, fmt.Errorf("block %q has both goto and if", b.Name)
	case b.If != "":
		if b.Then == "" || b.Else == "" {
			return cfg.Terminator[string]{}, fmt.Errorf("block %q: if needs both then and else", b.Name)
		}
		return cfg.CondBranch(b.If, label(b.Then), label(b.Else)), nil
	case b.Then != "" || b.Else != "":
		return cfg.Terminator[string]{}, fmt.Errorf("block %q: then/else without if", b.Name)
	case b.Goto != "":
		return cfg.Branch[string](label(b.Goto)), nil
	default:
		return cfg.Unreachable[string](), nil
	}
}

// Hash returns a content hash of the function, stable across runs.
func (f *FunctionSpec) Hash() string {
	data, err := yaml.Marshal(f)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", f))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

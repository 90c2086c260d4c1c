package commands

import (
	"fmt"
	"strings"

	"github.com/l3aro/go-cfg-structure/pkg/graphfile"
	"github.com/l3aro/go-cfg-structure/pkg/stmt"
)

// loadFunctions reads the graph file at path and returns its functions, or
// only the one called name when name is set.
func loadFunctions(path, name string) ([]*graphfile.Function, error) {
	doc, err := graphfile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	fns, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if name == "" {
		return fns, nil
	}

	names := make([]string, 0, len(fns))
	for _, fn := range fns {
		if fn.Name == name {
			return []*graphfile.Function{fn}, nil
		}
		names = append(names, fn.Name)
	}
	return nil, fmt.Errorf("function %q not found in %s (available: %s)", name, path, strings.Join(names, ", "))
}

func blockText(b stmt.Block) string {
	return strings.Join(b.Texts(), "\n")
}

func condText(c string) string {
	return c
}

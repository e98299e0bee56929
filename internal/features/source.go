package features

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// sourceFeatures are columns derived from the reconstructed source
// position. Models trained on them cannot be applied to data where the
// source is unknown, so they are rejected outright.
var sourceFeatures = buildSourceFeatureSet()

func buildSourceFeatureSet() map[string]bool {
	set := map[string]bool{
		"alpha":           true,
		"cos_delta_alpha": true,
		"delta":           true,
		"distance":        true,
		"theta":           true,
		"theta_deg":       true,
	}
	for i := 1; i <= 5; i++ {
		set[fmt.Sprintf("alpha_off_%d", i)] = true
		set[fmt.Sprintf("theta_deg_off_%d", i)] = true
	}
	return set
}

// IsSourceFeature reports whether name is a source dependent column.
func IsSourceFeature(name string) bool {
	return sourceFeatures[name]
}

type identCollector struct {
	found map[string]bool
}

func (c *identCollector) Visit(node *ast.Node) {
	if ident, ok := (*node).(*ast.IdentifierNode); ok {
		if sourceFeatures[ident.Value] {
			c.found[ident.Value] = true
		}
	}
}

// FindSourceFeatures returns the source dependent features used by the
// configuration, either directly as training variables or as identifiers
// inside generated-feature expressions. The result is sorted.
func FindSourceFeatures(trainingVariables []string, cfg *GenerationConfig) []string {
	collector := &identCollector{found: make(map[string]bool)}

	for _, v := range trainingVariables {
		if sourceFeatures[v] {
			collector.found[v] = true
		}
	}

	if cfg != nil {
		for _, k := range cfg.NeededKeys {
			if sourceFeatures[k] {
				collector.found[k] = true
			}
		}
		for _, src := range cfg.Features {
			tree, err := parser.Parse(src)
			if err != nil {
				// Broken expressions are reported by Validate; nothing
				// to scan here.
				continue
			}
			ast.Walk(&tree.Node, collector)
		}
	}

	used := make([]string, 0, len(collector.found))
	for name := range collector.found {
		used = append(used, name)
	}
	sort.Strings(used)
	return used
}

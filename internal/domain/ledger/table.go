package ledger

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/okian/squadup/internal/domain/skill"
)

//go:embed deltas.yaml
var defaultDeltas []byte

// Table maps an award category id to its delta vector.
type Table map[string]skill.Vector

// Lookup returns the delta vector for category and whether one is defined.
func (t Table) Lookup(category string) (skill.Vector, bool) {
	v, ok := t[category]
	return v, ok
}

// ParseTable decodes a YAML document of the form
//
//	mvp:
//	  tc: 0.05
//	  iq: 0.08
//
// into a Table. Unknown attribute codes are rejected.
func ParseTable(data []byte) (Table, error) {
	var raw map[string]map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ledger: decode delta table: %w", err)
	}
	t := make(Table, len(raw))
	for category, attrs := range raw {
		var v skill.Vector
		for code, delta := range attrs {
			a, err := skill.ParseAttribute(code)
			if err != nil {
				return nil, fmt.Errorf("ledger: category %q: %w", category, err)
			}
			v[a] = delta
		}
		t[category] = v
	}
	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultTable Table
)

// DefaultTable returns the built-in award delta table.
func DefaultTable() Table {
	defaultOnce.Do(func() {
		t, err := ParseTable(defaultDeltas)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

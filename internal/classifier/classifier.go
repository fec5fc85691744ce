// Package classifier maps manufacturer names to risk classes.
package classifier

import (
	"context"
	"sort"
	"strings"

	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the vehicle classifier.
var Module = fx.Module("classifier.service",
	fx.Provide(NewClassifier),
)

// DefaultRiskClass is assigned when a make is not in the classification
// table. Unknown makes are priced at the moderate tier rather than rejected;
// classification never fails.
const DefaultRiskClass = refdatadomain.RiskClassB

// Classifier resolves a make to a risk class via the cached classification
// table.
type Classifier struct {
	log    *zap.Logger
	tables refdatadomain.Tables
}

type ClassifierParam struct {
	fx.In

	Log    *zap.Logger
	Tables refdatadomain.Tables
}

func NewClassifier(p ClassifierParam) *Classifier {
	return &Classifier{
		log:    p.Log.Named("classifier.service"),
		tables: p.Tables,
	}
}

// Classify normalizes make and returns its risk class. Lookup order: exact
// match, then bidirectional substring match to tolerate compound names
// ("Mercedes-Benz USA"), then DefaultRiskClass.
func (c *Classifier) Classify(ctx context.Context, make string) refdatadomain.RiskClass {
	normalized := strings.ToLower(strings.TrimSpace(make))
	if normalized == "" {
		return DefaultRiskClass
	}

	table := c.tables.Classifications(ctx)

	if class, ok := table.Classes[normalized]; ok {
		return class
	}

	// Sorted scan keeps the substring match deterministic when more than one
	// table key overlaps the input.
	for _, knownMake := range sortedKeys(table.Classes) {
		if strings.Contains(normalized, knownMake) || strings.Contains(knownMake, normalized) {
			return table.Classes[knownMake]
		}
	}

	c.log.Debug("make not classified, using default", zap.String("make", normalized))
	return DefaultRiskClass
}

func sortedKeys(classes map[string]refdatadomain.RiskClass) []string {
	keys := make([]string, 0, len(classes))
	for key := range classes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

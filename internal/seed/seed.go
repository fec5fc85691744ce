// Package seed provisions the reference tables on startup so a fresh
// database prices quotes out of the box. Every table is seeded only when
// empty; operator-authored rows are never touched.
package seed

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	ratematrixdomain "github.com/smallbiznis/covara/internal/ratematrix/domain"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
	settingsdomain "github.com/smallbiznis/covara/internal/settings/domain"
	"github.com/smallbiznis/covara/pkg/repository"
	"gorm.io/gorm"
)

// seedEffectiveDate anchors the seeded rate rows; rate changes are new rows
// with later effective dates.
var seedEffectiveDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// mileageRanges are the exact-rate bracket keys. Bounds are inclusive and
// non-overlapping: up_to_15000 is [0,15000], the rest are (lower,upper].
var mileageRanges = []struct {
	Key        string
	Min, Max   int
	Multiplier float64
}{
	{"up_to_15000", 0, 15000, 0.95},
	{"15000_to_50000", 15001, 50000, 1.00},
	{"50000_to_75000", 50001, 75000, 1.15},
	{"75000_to_100000", 75001, 100000, 1.30},
	{"100000_to_125000", 100001, 125000, 1.50},
	{"125000_to_150000", 125001, 150000, 1.65},
}

// Run migrates the schema and seeds every empty table.
func Run(ctx context.Context, db *gorm.DB, node *snowflake.Node) error {
	if err := db.AutoMigrate(
		&refdatadomain.VehicleClassification{},
		&refdatadomain.CoverageLevel{},
		&refdatadomain.TermMultiplier{},
		&refdatadomain.DeductibleMultiplier{},
		&refdatadomain.MileageBracket{},
		&refdatadomain.AgeBracket{},
		&ratematrixdomain.RateMatrixEntry{},
		&ratematrixdomain.BaseRate{},
		&settingsdomain.AdminSetting{},
	); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := ensureSeeded(ctx, tx, classificationRows()); err != nil {
			return err
		}
		if err := ensureSeeded(ctx, tx, refdatadomain.DefaultCoverageLevels().Levels); err != nil {
			return err
		}
		if err := ensureSeeded(ctx, tx, termRows()); err != nil {
			return err
		}
		if err := ensureSeeded(ctx, tx, deductibleRows()); err != nil {
			return err
		}
		if err := ensureSeeded(ctx, tx, refdatadomain.DefaultMileageBrackets().Brackets); err != nil {
			return err
		}
		if err := ensureSeeded(ctx, tx, refdatadomain.DefaultAgeBrackets().Brackets); err != nil {
			return err
		}
		if err := ensureSeeded(ctx, tx, baseRateRows(node)); err != nil {
			return err
		}
		if err := ensureSeeded(ctx, tx, rateMatrixRows(node)); err != nil {
			return err
		}
		return ensureSeeded(ctx, tx, settingRows(node))
	})
}

// ensureSeeded inserts rows only when the table is empty.
func ensureSeeded[T any](ctx context.Context, tx *gorm.DB, rows []T) error {
	store := repository.ProvideStore[T](tx)
	count, err := store.Count(ctx, new(T))
	if err != nil {
		return err
	}
	if count > 0 || len(rows) == 0 {
		return nil
	}
	ptrs := make([]*T, len(rows))
	for i := range rows {
		ptrs[i] = &rows[i]
	}
	return store.BatchCreate(ctx, ptrs)
}

func classificationRows() []refdatadomain.VehicleClassification {
	classes := refdatadomain.DefaultClassifications().Classes
	makes := make([]string, 0, len(classes))
	for m := range classes {
		makes = append(makes, m)
	}
	sort.Strings(makes)

	rows := make([]refdatadomain.VehicleClassification, 0, len(makes))
	for _, m := range makes {
		rows = append(rows, refdatadomain.VehicleClassification{Make: m, RiskClass: classes[m]})
	}
	return rows
}

func termRows() []refdatadomain.TermMultiplier {
	multipliers := refdatadomain.DefaultTermMultipliers().Multipliers
	rows := make([]refdatadomain.TermMultiplier, 0, len(multipliers))
	for _, term := range sortedKeys(multipliers) {
		rows = append(rows, refdatadomain.TermMultiplier{TermMonths: term, Multiplier: multipliers[term]})
	}
	return rows
}

func deductibleRows() []refdatadomain.DeductibleMultiplier {
	multipliers := refdatadomain.DefaultDeductibleMultipliers().Multipliers
	rows := make([]refdatadomain.DeductibleMultiplier, 0, len(multipliers))
	for _, amount := range sortedKeys(multipliers) {
		rows = append(rows, refdatadomain.DeductibleMultiplier{Amount: amount, Multiplier: multipliers[amount]})
	}
	return rows
}

func baseRateRows(node *snowflake.Node) []ratematrixdomain.BaseRate {
	rates := refdatadomain.DefaultBaseRates()
	var rows []ratematrixdomain.BaseRate
	for _, class := range []refdatadomain.RiskClass{refdatadomain.RiskClassA, refdatadomain.RiskClassB, refdatadomain.RiskClassC} {
		for _, coverage := range []string{"silver", "gold", "platinum"} {
			rows = append(rows, ratematrixdomain.BaseRate{
				ID:            node.Generate(),
				VehicleClass:  class,
				CoverageLevel: coverage,
				Rate:          rates[class][coverage],
				EffectiveDate: seedEffectiveDate,
			})
		}
	}
	return rows
}

// rateMatrixRows seeds a starter exact-rate matrix derived from the base
// rates, covering the 36-month gold tier across all mileage ranges.
func rateMatrixRows(node *snowflake.Node) []ratematrixdomain.RateMatrixEntry {
	rates := refdatadomain.DefaultBaseRates()
	var rows []ratematrixdomain.RateMatrixEntry
	for _, class := range []refdatadomain.RiskClass{refdatadomain.RiskClassA, refdatadomain.RiskClassB, refdatadomain.RiskClassC} {
		base := rates[class]["gold"]
		for _, r := range mileageRanges {
			rows = append(rows, ratematrixdomain.RateMatrixEntry{
				ID:              node.Generate(),
				VehicleClass:    class,
				CoverageLevel:   "gold",
				TermMonths:      36,
				MileageRangeKey: r.Key,
				MinMileage:      r.Min,
				MaxMileage:      r.Max,
				RateAmount:      math.Round(base*r.Multiplier*100) / 100,
				EffectiveDate:   seedEffectiveDate,
				Active:          true,
			})
		}
	}
	return rows
}

func settingRows(node *snowflake.Node) []settingsdomain.AdminSetting {
	return []settingsdomain.AdminSetting{
		{ID: node.Generate(), Category: settingsdomain.CategoryFees, Key: "vsc", Value: 50.00},
		{ID: node.Generate(), Category: settingsdomain.CategoryTax, Key: settingsdomain.DefaultJurisdiction, Value: 0.07},
	}
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

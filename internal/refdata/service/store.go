package service

import (
	"context"
	"sort"
	"time"

	"github.com/smallbiznis/covara/internal/cache"
	"github.com/smallbiznis/covara/internal/clock"
	"github.com/smallbiznis/covara/internal/config"
	"github.com/smallbiznis/covara/internal/observability/metrics"
	"github.com/smallbiznis/covara/internal/refdata/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// refreshTTL is the fixed lifetime of every cached table.
const refreshTTL = 5 * time.Minute

const (
	tableClassifications = "vehicle_classifications"
	tableCoverageLevels  = "vsc_coverage_levels"
	tableTerms           = "vsc_term_multipliers"
	tableDeductibles     = "vsc_deductible_multipliers"
	tableMileage         = "vsc_mileage_brackets"
	tableAge             = "vsc_age_brackets"
)

// Store caches the six reference tables independently. Each table is loaded
// lazily, expires on its own TTL, and concurrent reloads of the same key
// collapse to a single in-flight store call.
type Store struct {
	log     *zap.Logger
	repo    domain.Repository
	metrics *metrics.Metrics

	storeTimeout time.Duration
	sf           singleflight.Group

	classifications cache.Cache[string, domain.ClassificationTable]
	coverageLevels  cache.Cache[string, domain.CoverageTable]
	terms           cache.Cache[string, domain.TermTable]
	deductibles     cache.Cache[string, domain.DeductibleTable]
	mileage         cache.Cache[string, domain.MileageTable]
	age             cache.Cache[string, domain.AgeTable]
}

type StoreParam struct {
	fx.In

	Log     *zap.Logger
	Repo    domain.Repository
	Clock   clock.Clock
	Cfg     config.Config
	Metrics *metrics.Metrics `optional:"true"`
}

// NewStore returns the shared reference data cache.
func NewStore(p StoreParam) domain.Tables {
	return newStore(p.Log, p.Repo, p.Clock, p.Cfg.StoreTimeout, p.Metrics)
}

func newStore(log *zap.Logger, repo domain.Repository, clk clock.Clock, storeTimeout time.Duration, m *metrics.Metrics) *Store {
	if storeTimeout <= 0 {
		storeTimeout = 3 * time.Second
	}
	return &Store{
		log:          log.Named("refdata.store"),
		repo:         repo,
		metrics:      m,
		storeTimeout: storeTimeout,

		classifications: cache.NewTTLCache(cache.WithNowFunc[string, domain.ClassificationTable](clk.Now)),
		coverageLevels:  cache.NewTTLCache(cache.WithNowFunc[string, domain.CoverageTable](clk.Now)),
		terms:           cache.NewTTLCache(cache.WithNowFunc[string, domain.TermTable](clk.Now)),
		deductibles:     cache.NewTTLCache(cache.WithNowFunc[string, domain.DeductibleTable](clk.Now)),
		mileage:         cache.NewTTLCache(cache.WithNowFunc[string, domain.MileageTable](clk.Now)),
		age:             cache.NewTTLCache(cache.WithNowFunc[string, domain.AgeTable](clk.Now)),
	}
}

func (s *Store) Classifications(ctx context.Context) domain.ClassificationTable {
	return loadTable(s, tableClassifications, s.classifications, func(ctx context.Context) domain.ClassificationTable {
		rows, err := s.repo.ListClassifications(ctx)
		if err != nil || len(rows) == 0 {
			return degraded(s, tableClassifications, err, domain.DefaultClassifications())
		}
		classes := make(map[string]domain.RiskClass, len(rows))
		for _, row := range rows {
			classes[row.Make] = row.RiskClass
		}
		return domain.ClassificationTable{Classes: classes}
	})
}

func (s *Store) CoverageLevels(ctx context.Context) domain.CoverageTable {
	return loadTable(s, tableCoverageLevels, s.coverageLevels, func(ctx context.Context) domain.CoverageTable {
		rows, err := s.repo.ListCoverageLevels(ctx)
		if err != nil || len(rows) == 0 {
			return degraded(s, tableCoverageLevels, err, domain.DefaultCoverageLevels())
		}
		return domain.CoverageTable{Levels: rows}
	})
}

func (s *Store) TermMultipliers(ctx context.Context) domain.TermTable {
	return loadTable(s, tableTerms, s.terms, func(ctx context.Context) domain.TermTable {
		rows, err := s.repo.ListTermMultipliers(ctx)
		if err != nil || len(rows) == 0 {
			return degraded(s, tableTerms, err, domain.DefaultTermMultipliers())
		}
		multipliers := make(map[int]float64, len(rows))
		for _, row := range rows {
			multipliers[row.TermMonths] = row.Multiplier
		}
		return domain.TermTable{Multipliers: multipliers}
	})
}

func (s *Store) DeductibleMultipliers(ctx context.Context) domain.DeductibleTable {
	return loadTable(s, tableDeductibles, s.deductibles, func(ctx context.Context) domain.DeductibleTable {
		rows, err := s.repo.ListDeductibleMultipliers(ctx)
		if err != nil || len(rows) == 0 {
			return degraded(s, tableDeductibles, err, domain.DefaultDeductibleMultipliers())
		}
		multipliers := make(map[int]float64, len(rows))
		for _, row := range rows {
			multipliers[row.Amount] = row.Multiplier
		}
		return domain.DeductibleTable{Multipliers: multipliers}
	})
}

func (s *Store) MileageBrackets(ctx context.Context) domain.MileageTable {
	return loadTable(s, tableMileage, s.mileage, func(ctx context.Context) domain.MileageTable {
		rows, err := s.repo.ListMileageBrackets(ctx)
		if err != nil || len(rows) == 0 {
			return degraded(s, tableMileage, err, domain.DefaultMileageBrackets())
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].MaxMileage < rows[j].MaxMileage })
		return domain.MileageTable{Brackets: rows}
	})
}

func (s *Store) AgeBrackets(ctx context.Context) domain.AgeTable {
	return loadTable(s, tableAge, s.age, func(ctx context.Context) domain.AgeTable {
		rows, err := s.repo.ListAgeBrackets(ctx)
		if err != nil || len(rows) == 0 {
			return degraded(s, tableAge, err, domain.DefaultAgeBrackets())
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].MaxAge < rows[j].MaxAge })
		return domain.AgeTable{Brackets: rows}
	})
}

// Clear drops all cached tables.
func (s *Store) Clear() {
	s.classifications.Clear()
	s.coverageLevels.Clear()
	s.terms.Clear()
	s.deductibles.Clear()
	s.mileage.Clear()
	s.age.Clear()
}

// degraded logs a failed or empty load and returns the versioned fallback.
func degraded[T any](s *Store, table string, err error, fallback T) T {
	cause := zap.String("cause", "empty_table")
	if err != nil {
		cause = zap.Error(err)
	}
	s.log.Warn("serving fallback reference table",
		zap.String("table", table),
		zap.String("defaults_version", domain.DefaultsVersion),
		cause,
	)
	s.metrics.RefdataFallback(table)
	return fallback
}

func loadTable[T any](s *Store, key string, c cache.Cache[string, T], build func(ctx context.Context) T) T {
	if v, ok := c.Get(key); ok {
		return v
	}
	// The reload is detached from the caller's context: a reload is
	// idempotent within its TTL window and shared across waiters, so one
	// caller's cancellation must not poison the result for the rest.
	v, _, _ := s.sf.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
		defer cancel()
		t := build(ctx)
		c.Set(key, t, refreshTTL)
		return t, nil
	})
	return v.(T)
}

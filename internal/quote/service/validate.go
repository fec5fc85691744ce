package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/covara/internal/quote/domain"
	ratingdomain "github.com/smallbiznis/covara/internal/rating/domain"
)

const (
	minYear    = 1990
	maxMileage = 500000
)

var validTerms = map[int]bool{12: true, 24: true, 36: true, 48: true, 60: true, 72: true}

// validate returns human-readable problems with the request; an empty slice
// means it is rateable. Coverage levels are checked against the cached
// catalog so a store-driven tier becomes sellable without a deploy.
func (s *service) validate(ctx context.Context, req domain.Request) []string {
	var errs []string

	if strings.TrimSpace(req.Make) == "" {
		errs = append(errs, "make is required")
	}
	maxYear := s.clock.Now().Year() + 1
	if req.Year < minYear || req.Year > maxYear {
		errs = append(errs, fmt.Sprintf("year must be between %d and %d", minYear, maxYear))
	}
	if req.Mileage < 0 || req.Mileage > maxMileage {
		errs = append(errs, fmt.Sprintf("mileage must be between 0 and %d", maxMileage))
	}
	if !s.validCoverage(ctx, req.CoverageLevel) {
		errs = append(errs, fmt.Sprintf("coverage_level %q is not offered", req.CoverageLevel))
	}
	if !validTerms[req.TermMonths] {
		errs = append(errs, "term_months must be one of 12, 24, 36, 48, 60, 72")
	}
	if req.Deductible < 0 {
		errs = append(errs, "deductible must not be negative")
	}
	switch req.CustomerSegment {
	case "", ratingdomain.SegmentRetail, ratingdomain.SegmentWholesale:
	default:
		errs = append(errs, fmt.Sprintf("customer_segment %q is not recognized", req.CustomerSegment))
	}
	return errs
}

func (s *service) validCoverage(ctx context.Context, level string) bool {
	for _, l := range s.tables.CoverageLevels(ctx).Levels {
		if l.Code == level {
			return true
		}
	}
	return false
}

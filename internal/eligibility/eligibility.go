// Package eligibility implements the hard gate evaluated before any pricing.
package eligibility

import (
	"fmt"
	"strings"
)

// Status is the outcome of the eligibility gate.
type Status string

const (
	StatusEligible        Status = "eligible"
	StatusEligibleWarning Status = "eligible_with_warning"
	StatusIneligible      Status = "ineligible"
)

// Hard gate thresholds. The warning band sits below the hard limits and only
// attaches advisory messages.
const (
	MaxAgeYears     = 20
	MaxMileage      = 200000
	WarningAgeYears = 15
	WarningMileage  = 150000
)

// DeclineMessage is a contractual string verified by downstream consumers.
// Do not rephrase.
const DeclineMessage = "Vehicle doesn't qualify. Make sure you entered the correct current mileage. Vehicle must be 20 model years or newer and less than 200,000 miles at time of quote"

// Result carries the gate outcome plus advisory messaging.
type Result struct {
	Status       Status
	VehicleAge   int
	Mileage      int
	Warnings     []string
	Restrictions []string
}

// Eligible reports whether rating may proceed.
func (r Result) Eligible() bool {
	return r.Status != StatusIneligible
}

// Evaluate applies the gate to a vehicle's age and mileage. Ineligibility is
// age > 20 years or mileage >= 200,000; the mileage boundary itself declines.
func Evaluate(vehicleAge, mileage int) Result {
	result := Result{
		Status:     StatusEligible,
		VehicleAge: vehicleAge,
		Mileage:    mileage,
	}

	if vehicleAge > MaxAgeYears {
		result.Status = StatusIneligible
		result.Restrictions = append(result.Restrictions,
			fmt.Sprintf("Vehicle is %d years old (must be %d model years or newer)", vehicleAge, MaxAgeYears))
	} else if vehicleAge > WarningAgeYears {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Vehicle is %d years old - limited coverage options may apply", vehicleAge))
	}

	if mileage >= MaxMileage {
		result.Status = StatusIneligible
		result.Restrictions = append(result.Restrictions,
			fmt.Sprintf("Vehicle has %s miles (must be less than %s miles)", groupDigits(mileage), groupDigits(MaxMileage)))
	} else if mileage >= WarningMileage {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("High mileage vehicle (%s miles) - premium rates may apply", groupDigits(mileage)))
	}

	if result.Status != StatusIneligible && len(result.Warnings) > 0 {
		result.Status = StatusEligibleWarning
	}

	return result
}

func groupDigits(n int) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

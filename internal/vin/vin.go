// Package vin validates and decodes Vehicle Identification Numbers. Decoding
// fails soft: the quote engine keeps whatever vehicle fields the caller
// supplied when a decode is unavailable.
package vin

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidVIN marks a VIN that fails structural validation.
var ErrInvalidVIN = errors.New("invalid_vin")

// vinPattern enforces 17 characters with I, O and Q excluded.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// Vehicle is the result of a decode. Zero fields mean the decoder could not
// determine them.
type Vehicle struct {
	VIN   string
	Make  string
	Model string
	Year  int

	// DecodeMethod records whether the fields came from the external
	// decoder or from the VIN's own structure.
	DecodeMethod string
}

const (
	DecodeMethodExternal   = "external_api"
	DecodeMethodStructural = "basic_structure"
)

// Decoder resolves a VIN to vehicle fields.
type Decoder interface {
	Decode(ctx context.Context, vin string) (*Vehicle, error)
}

// Normalize uppercases and trims a raw VIN.
func Normalize(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

// Validate checks length, character set and the position-9 check digit.
// The input must already be normalized.
func Validate(vin string) error {
	if len(vin) != 17 {
		return fmt.Errorf("%w: must be exactly 17 characters", ErrInvalidVIN)
	}
	if !vinPattern.MatchString(vin) {
		return fmt.Errorf("%w: contains invalid characters (I, O, Q not allowed)", ErrInvalidVIN)
	}
	if !checkDigitValid(vin) {
		return fmt.Errorf("%w: check digit mismatch", ErrInvalidVIN)
	}
	return nil
}

var checkWeights = [17]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

var transliteration = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
}

func checkDigitValid(vin string) bool {
	sum := 0
	for i := 0; i < 17; i++ {
		c := vin[i]
		if c >= '0' && c <= '9' {
			sum += int(c-'0') * checkWeights[i]
		} else {
			sum += transliteration[c] * checkWeights[i]
		}
	}
	want := byte('0' + sum%11)
	if sum%11 == 10 {
		want = 'X'
	}
	return vin[8] == want
}

package vin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/smallbiznis/covara/internal/clock"
	"github.com/smallbiznis/covara/internal/config"
	"github.com/smallbiznis/covara/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// wmiMakes maps World Manufacturer Identifiers (first three characters) to
// makes for the structural fallback path.
var wmiMakes = map[string]string{
	"1HG": "Honda", "1HT": "Honda", "2HG": "Honda", "3HG": "Honda", "JHM": "Honda",
	"1G1": "Chevrolet", "1GC": "Chevrolet", "1GM": "Chevrolet",
	"2G1": "Chevrolet", "3G1": "Chevrolet",
	"1G6": "Cadillac",
	"1FA": "Ford", "1FT": "Ford",
	"4T1": "Toyota", "4T3": "Toyota", "5TD": "Toyota", "JTD": "Toyota",
	"KMH": "Hyundai",
	"WBA": "BMW", "WBS": "BMW",
	"WDD": "Mercedes-Benz", "WDC": "Mercedes-Benz",
}

// yearCodes maps the position-10 character to a 1980-cycle base year. The
// code repeats every 30 years; decodeYear picks the latest cycle that is not
// in the future.
var yearCodes = map[byte]int{
	'A': 1980, 'B': 1981, 'C': 1982, 'D': 1983, 'E': 1984, 'F': 1985,
	'G': 1986, 'H': 1987, 'J': 1988, 'K': 1989, 'L': 1990, 'M': 1991,
	'N': 1992, 'P': 1993, 'R': 1994, 'S': 1995, 'T': 1996, 'V': 1997,
	'W': 1998, 'X': 1999, 'Y': 2000, '1': 2001, '2': 2002, '3': 2003,
	'4': 2004, '5': 2005, '6': 2006, '7': 2007, '8': 2008, '9': 2009,
}

type nhtsaDecoder struct {
	log     *zap.Logger
	client  *http.Client
	baseURL string
	clock   clock.Clock
	metrics *metrics.Metrics
}

type DecoderParam struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

// NewDecoder returns a Decoder backed by the NHTSA vPIC API with a
// structural fallback when the API is unreachable.
func NewDecoder(p DecoderParam) Decoder {
	return &nhtsaDecoder{
		log:     p.Log.Named("vin.decoder"),
		client:  &http.Client{Timeout: p.Cfg.VINDecodeTimeout},
		baseURL: p.Cfg.VINDecodeURL,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

func (d *nhtsaDecoder) Decode(ctx context.Context, raw string) (*Vehicle, error) {
	v := Normalize(raw)
	if err := Validate(v); err != nil {
		return nil, err
	}

	if vehicle, err := d.external(ctx, v); err == nil {
		return vehicle, nil
	} else {
		d.metrics.VINDecodeFailed()
		d.log.Warn("external vin decode failed, using structural decode",
			zap.String("vin", v),
			zap.Error(err),
		)
	}
	return d.structural(v), nil
}

// nhtsaResponse is the flat DecodeVinValues payload.
type nhtsaResponse struct {
	Results []struct {
		Make      string `json:"Make"`
		Model     string `json:"Model"`
		ModelYear string `json:"ModelYear"`
	} `json:"Results"`
}

func (d *nhtsaDecoder) external(ctx context.Context, v string) (*Vehicle, error) {
	url := fmt.Sprintf("%s/%s?format=json", d.baseURL, v)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vin decode api returned %d", resp.StatusCode)
	}

	var payload nhtsaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 || payload.Results[0].Make == "" {
		return nil, fmt.Errorf("vin decode api returned no usable result")
	}

	r := payload.Results[0]
	year, _ := strconv.Atoi(r.ModelYear)
	return &Vehicle{
		VIN:          v,
		Make:         r.Make,
		Model:        r.Model,
		Year:         year,
		DecodeMethod: DecodeMethodExternal,
	}, nil
}

// structural extracts what the VIN itself encodes: the make from the WMI and
// the model year from position 10.
func (d *nhtsaDecoder) structural(v string) *Vehicle {
	wmi := v[:3]
	vehicleMake := wmiMakes[wmi]
	if vehicleMake == "" {
		// Prefix match on the first two characters; keys are scanned in
		// sorted order so the result is stable.
		for _, key := range sortedWMIs() {
			if key[:2] == wmi[:2] {
				vehicleMake = wmiMakes[key]
				break
			}
		}
	}
	return &Vehicle{
		VIN:          v,
		Make:         vehicleMake,
		Year:         d.decodeYear(v[9]),
		DecodeMethod: DecodeMethodStructural,
	}
}

func sortedWMIs() []string {
	keys := make([]string, 0, len(wmiMakes))
	for key := range wmiMakes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (d *nhtsaDecoder) decodeYear(code byte) int {
	year, ok := yearCodes[code]
	if !ok {
		return 0
	}
	// Model year may run one ahead of the calendar year.
	maxYear := d.clock.Now().Year() + 1
	for year+30 <= maxYear {
		year += 30
	}
	return year
}

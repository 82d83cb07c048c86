package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Parameter names requested from the NASA POWER monthly API.
const (
	paramTemperature = "T2M"
	paramPrecip      = "PRECTOTCORR"
	paramHumidity    = "RH2M"
)

// powerFillValue is the POWER sentinel for a missing observation.
const powerFillValue = -999.0

// ErrMalformedUpstreamData indicates a payload with no recognizable
// parameter root. It is the only hard failure in this package; a valid
// payload with no data for the range normalizes to an empty series instead.
var ErrMalformedUpstreamData = errors.New("unrecognized upstream payload structure")

// NormalizeMonthlySeries converts a raw POWER monthly payload into an
// ordered sequence of canonical monthly records. Date keys are joined across
// the three parameters, truncated to "YYYY-MM" month labels, and sorted
// ascending; months where all three metrics are missing are dropped.
func NormalizeMonthlySeries(payload []byte) ([]MonthlyRecord, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUpstreamData, err)
	}

	root, ok := parameterRoot(doc)
	if !ok {
		return nil, ErrMalformedUpstreamData
	}

	t2m := parameterMap(root, paramTemperature)
	prcp := parameterMap(root, paramPrecip)
	rh := parameterMap(root, paramHumidity)

	keys := unionKeys(t2m, prcp, rh)
	sort.Strings(keys)

	// Raw keys are walked in sorted order and collapsed onto month labels,
	// so a YYYYMM/YYYYMMDD collision resolves last-write-wins.
	byMonth := make(map[string]MonthlyRecord, len(keys))
	for _, key := range keys {
		label, ok := monthLabel(key)
		if !ok {
			continue
		}
		rec := MonthlyRecord{
			Date:            label,
			TemperatureC:    coerceValue(t2m[key]),
			PrecipMM:        coerceValue(prcp[key]),
			HumidityPercent: coerceValue(rh[key]),
		}
		if rec.TemperatureC == nil && rec.PrecipMM == nil && rec.HumidityPercent == nil {
			continue
		}
		byMonth[label] = rec
	}

	labels := make([]string, 0, len(byMonth))
	for label := range byMonth {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series := make([]MonthlyRecord, 0, len(labels))
	for _, label := range labels {
		series = append(series, byMonth[label])
	}
	return series, nil
}

// parameterRoot locates the parameter map inside the payload. POWER has used
// three top-level shapes over time; they are checked in precedence order and
// anything else fails closed rather than guessing further.
func parameterRoot(doc map[string]any) (map[string]any, bool) {
	if props, ok := doc["properties"].(map[string]any); ok {
		if root, ok := props["parameter"].(map[string]any); ok && len(root) > 0 {
			return root, true
		}
		if root, ok := props["parameters"].(map[string]any); ok && len(root) > 0 {
			return root, true
		}
	}
	if root, ok := doc["parameters"].(map[string]any); ok && len(root) > 0 {
		return root, true
	}
	return nil, false
}

// parameterMap returns the date-keyed value map for one parameter, or an
// empty map when the parameter is absent or not an object.
func parameterMap(root map[string]any, name string) map[string]any {
	if m, ok := root[name].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func unionKeys(maps ...map[string]any) []string {
	seen := make(map[string]struct{})
	for _, m := range maps {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	return keys
}

// monthLabel derives the canonical "YYYY-MM" label from a raw date key,
// which may be YYYYMM or YYYYMMDD. Keys shorter than six characters or with
// a non-numeric prefix are rejected.
func monthLabel(key string) (string, bool) {
	if len(key) < 6 {
		return "", false
	}
	if _, err := strconv.Atoi(key[:6]); err != nil {
		return "", false
	}
	return key[:4] + "-" + key[4:6], true
}

// coerceValue converts a raw observation to a float, treating coercion
// failures and the POWER fill sentinel as missing.
func coerceValue(v any) *float64 {
	var f float64
	switch raw := v.(type) {
	case float64:
		f = raw
	case string:
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		f = parsed
	case json.Number:
		parsed, err := raw.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if f == powerFillValue {
		return nil
	}
	return &f
}

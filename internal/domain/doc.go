// Package domain computes climate suitability and stability scores from
// NASA POWER monthly time series.
//
// # Data Source
//
// Monthly climate series come from the NASA POWER temporal/monthly/point API
// (https://power.larc.nasa.gov/). The service requests three parameters:
//
//	T2M         temperature at 2 meters, °C
//	PRECTOTCORR corrected total precipitation, mm/month
//	RH2M        relative humidity at 2 meters, %
//
// # POWER Payload Conventions
//
// The API's top-level shape has changed over time. The parameter root may
// appear at any of three paths, checked in this order:
//
//	properties.parameter
//	properties.parameters
//	parameters
//
// A payload matching none of them fails with [ErrMalformedUpstreamData];
// this is distinct from a valid payload with no data for the range, which
// normalizes to an empty series.
//
// Date keys under each parameter are digit strings, either YYYYMM or
// YYYYMMDD (truncated to the month). Keys shorter than six digits or with a
// non-numeric prefix are skipped. The canonical join key across parameters
// is the month label "YYYY-MM", whose lexicographic order equals
// chronological order.
//
// Missing observations appear as JSON null or as the POWER fill value -999.
// Both normalize to a nil metric; so does any value that fails numeric
// coercion. A month with all three metrics missing is dropped entirely.
//
// # Scoring
//
// Two 0-100 scores are derived:
//
//	Suitability: point-in-time rating of how favorable the monthly averages
//	  are, from per-metric distance penalties against comfort ranges. A
//	  metric with no observations at all contributes its full weight as
//	  penalty: no data counts against suitability.
//	Stability: historical rating of how little the climate is drifting,
//	  from regression slopes over the last twenty years of yearly averages.
//
// Degenerate inputs (empty series, unsupported wrapper shapes, too few
// points for a regression) score 0 or project nothing; they are terminal
// cases, never errors.
package domain

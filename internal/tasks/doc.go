// Package tasks implements the listening-history aggregation & enrichment
// pipeline.
//
// The core abstraction is [HistoryEngine], which owns the five pipeline
// entry points the presentation layer invokes: refresh now-playing, refresh
// recent tracks, refresh top tracks, refresh top artists, and create
// playlist. Refreshes convert failures to in-band sentinel data at their
// own boundary; no error escapes to the caller from a refresh.
//
// Ranking ([TopEntities]) is a pure function and enrichment follows a
// fan-out / wait-all / preserve-order / degrade-per-item policy: the
// secondary lookups for one ranked list are launched together, a failure in
// one never cancels the others, and the merged output keeps the ranked
// order regardless of completion order.
package tasks

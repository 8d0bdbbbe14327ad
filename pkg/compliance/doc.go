// Package compliance implements the regulatory rule evaluator and the
// compliance check that gates phase advancement.
//
// # Rule Set
//
// Eight rules run in a fixed order: required-field checks (container
// number, shipper, consignee, HS code or commodity, ETA, discharge port),
// a sanctioned-route watchlist match, and an HS code plausibility check.
// Each rule fires at most once per evaluation and produces a fixed
// human-readable message; downstream consumers match on these strings, so
// existing wording never changes.
//
// # Check Semantics
//
// A clean evaluation marks the compliance phase done and advances the
// shipment to monitoring. Any violation forces the phase pointer back to
// compliance, whatever phase the shipment had reached, without touching
// progress already marked done. Checks are idempotent and re-entrant: a
// later data correction can be re-checked at any time.
package compliance

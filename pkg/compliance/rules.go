package compliance

import (
	"strings"

	"freightworks/meridian/pkg/shipment"
)

// Rule identifiers, used as stable labels for metrics and tests. The
// human-readable messages are the contract consumed by the UI; extend the
// rule set without changing existing wording, since consumers match on
// substrings.
const (
	RuleContainerNo   = "container_no"
	RuleShipper       = "shipper"
	RuleConsignee     = "consignee"
	RuleHSCode        = "hs_code"
	RuleETA           = "eta"
	RuleDischargePort = "discharge_port"
	RuleHighRiskPort  = "high_risk_port"
	RuleHSCodeFormat  = "hs_code_format"
)

// Violation messages. Fixed wording; see rule identifier comment above.
const (
	msgMissingContainerNo = "Missing container number"
	msgMissingShipper     = "Missing shipper"
	msgMissingConsignee   = "Missing consignee"
	msgMissingHSCode      = "Missing HS code or commodity description"
	msgMissingETA         = "Missing ETA"
	msgMissingPort        = "Missing discharge port"
	msgHighRiskPort       = "Route involves a high-risk port (manual review required)"
	msgInvalidHSCode      = "HS code appears invalid or generic"
)

// DefaultWatchlist is the default set of sanctioned route keywords checked
// against the port and destination fields.
func DefaultWatchlist() []string {
	return []string{"IRAN", "NORTH KOREA", "SYRIA"}
}

// Violation is a single compliance rule failure.
type Violation struct {
	Rule    string `json:"rule"`    // stable rule identifier
	Message string `json:"message"` // human-readable message stored on the shipment
}

// Evaluator inspects a shipment record against the regulatory rule set.
// Evaluation is pure and deterministic: violations are returned in the
// fixed rule order and each rule fires at most once.
type Evaluator struct {
	watchlist []string
}

// NewEvaluator creates an evaluator with the given route watchlist.
// An empty watchlist falls back to the default sanctioned routes.
func NewEvaluator(watchlist []string) *Evaluator {
	if len(watchlist) == 0 {
		watchlist = DefaultWatchlist()
	}
	upper := make([]string, len(watchlist))
	for i, w := range watchlist {
		upper[i] = strings.ToUpper(strings.TrimSpace(w))
	}
	return &Evaluator{watchlist: upper}
}

// Evaluate runs the full rule set against the shipment and returns the
// violations in rule order. It never errors: an unevaluable (missing)
// field is a violation, not an exception.
func (e *Evaluator) Evaluate(s *shipment.Shipment) []Violation {
	violations := []Violation{}

	if blank(s.ContainerNo) {
		violations = append(violations, Violation{RuleContainerNo, msgMissingContainerNo})
	}
	if blank(s.Shipper) {
		violations = append(violations, Violation{RuleShipper, msgMissingShipper})
	}
	if blank(s.Consignee) {
		violations = append(violations, Violation{RuleConsignee, msgMissingConsignee})
	}
	if blank(s.HSCode) && blank(s.Commodity) {
		violations = append(violations, Violation{RuleHSCode, msgMissingHSCode})
	}
	if s.ETA == nil && s.ArrivalDate == nil && s.PromisedDate == nil {
		violations = append(violations, Violation{RuleETA, msgMissingETA})
	}
	if blank(s.Port) && blank(s.Destination) {
		violations = append(violations, Violation{RuleDischargePort, msgMissingPort})
	}
	if e.routeOnWatchlist(s.Port) || e.routeOnWatchlist(s.Destination) {
		violations = append(violations, Violation{RuleHighRiskPort, msgHighRiskPort})
	}
	if code := strings.TrimSpace(s.HSCode); s.HSCode != "" {
		if code == "0000" || code == "9999" || len(code) < 4 {
			violations = append(violations, Violation{RuleHSCodeFormat, msgInvalidHSCode})
		}
	}

	return violations
}

// Messages flattens violations into the human-readable strings stored in
// the shipment's compliance issues field.
func Messages(violations []Violation) []string {
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Message
	}
	return msgs
}

// routeOnWatchlist reports whether the field contains a watchlisted
// keyword, case-insensitive.
func (e *Evaluator) routeOnWatchlist(field string) bool {
	if blank(field) {
		return false
	}
	upper := strings.ToUpper(field)
	for _, w := range e.watchlist {
		if w != "" && strings.Contains(upper, w) {
			return true
		}
	}
	return false
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

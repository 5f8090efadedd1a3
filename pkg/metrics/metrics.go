// Package metrics owns the Prometheus collectors. Every constructor accepts a
// nil Registerer and every recorder is nil-safe, so tests can skip metrics.
package metrics

const namespace = "kitchenline"

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// ABOUTME: Diagnostic sink contract for surfacing conditions needing human review
// ABOUTME: Fire-and-forget reporting, used for ambiguous-match ingestion outcomes

package interfaces

// DiagnosticSink receives reports about conditions the core refuses to
// resolve automatically, such as scraped data matching multiple canonical
// records. Implementations must not block the caller; delivery is
// best-effort.
type DiagnosticSink interface {
	// Report emits a diagnostic message with structured context fields.
	Report(msg string, fields map[string]interface{})
}

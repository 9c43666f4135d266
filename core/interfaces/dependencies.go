// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Collaborator handles are passed explicitly, never process-wide singletons

package interfaces

// Dependencies holds all external collaborators required by the core
// reconciliation logic
type Dependencies struct {
	// Store is the canonical plugin record store
	Store RecordStore

	// Cache provides byte caching for derived read views
	Cache Cache

	// TagCounters is the external tag-frequency subsystem
	TagCounters TagCounters

	// Diagnostics receives ambiguity reports for manual resolution
	Diagnostics DiagnosticSink

	// HTTPClient provides HTTP request functionality
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger
}

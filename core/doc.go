// Package core contains the business logic for the plugin registry.
// It is designed to be framework-agnostic and can be used independently
// of any scraper schedule or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (Record, SearchEntry) and field schema
// - slugger: Permalink slug generation with collision handling
// - merge: Authority-ordered reconciliation of records from different sources
// - match: Candidate lookup for newly scraped attribute bags
// - ingest: The scrape-to-store pipeline tying match, slug, and merge together
// - searchindex: Search index projection, ranking, and cached snapshots
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (store, cache, logger)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "plugindex-api/core/ingest"
//	    "plugindex-api/core/interfaces"
//	)
//
//	// Create dependencies
//	deps := interfaces.Dependencies{
//	    Store:       myStore,    // implements interfaces.RecordStore
//	    TagCounters: myCounters, // implements interfaces.TagCounters
//	    Diagnostics: mySink,     // implements interfaces.DiagnosticSink
//	    Logger:      myLogger,   // implements interfaces.Logger
//	}
//
//	// Create service
//	ingestService := ingest.NewService(deps)
//
//	// Reconcile scraped data into the canonical corpus
//	err := ingestService.Ingest(ctx, scraped, nil)
//
package core

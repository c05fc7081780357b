// Package history persists a record of every medialift run in SQLite.
//
// Each run gets one row in runs with its inputs, final status and counters,
// plus one row per artifact that was written. Dry runs are not recorded.
// Fresh artifacts are not recorded. Recorder adapts a Store to the pipeline
// observer interface so the orchestrator never talks to the database directly.
package history

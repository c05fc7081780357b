// Package main hosts the medialift CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, applies flag overrides,
// and hands the work to the internal pipeline. "run" processes input trees,
// "check" reports tool and directory readiness, "history" lists recorded runs,
// and "config" scaffolds or validates the TOML file.
//
// Keep this package thin: behavior lives in the internal packages and is only
// surfaced here through flags and rendered tables.
package main

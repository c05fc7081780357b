// Package preflight provides readiness checks run before a medialift run
// touches the output tree.
//
// The "run" command calls RunAll and refuses to start when a check fails, so a
// missing tool or read-only output directory is reported up front instead of
// halfway through a tree. The "check" command renders the same results as a
// table.
package preflight

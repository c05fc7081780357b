// Package fileutil holds the install primitives every artifact goes through:
// temp paths that keep the real extension, renames that flag cross-device
// moves, and hard-link installs with a copy fallback.
package fileutil

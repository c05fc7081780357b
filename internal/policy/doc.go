// Package policy holds the pure encode decisions: bit rate tiers and caps,
// the re-encode threshold, aspect-preserving scale-to-fit, watermark geometry,
// and the poster frame timestamp.
//
// The integer functions take values as given. The Properties-aware wrappers
// decide explicitly what happens when a probe field is unknown: height and
// dimensions are required (faults.ErrMissingMetadata), while an unknown bit
// rate or duration falls back to a stated conservative default.
package policy

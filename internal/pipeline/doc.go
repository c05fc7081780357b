// Package pipeline walks input trees and brings every derived artifact in the
// output tree up to date.
//
// Each discovered file is classified once (media.Classify) and handled by the
// matching kind: video yields a poster frame, a primary rendition, and an
// alternate-codec rendition; audio yields a linked primary and an alternate;
// images are re-encoded to fit the configured bounds; anything else is hard
// linked. Every artifact is checked for freshness on its own, so a re-run only
// redoes what is out of date. Encode decisions come from EncodePlan builders,
// which are pure functions of probed properties and Settings.
//
// Run returns a Stats accumulator. Observers receive run and artifact events
// for history and metrics; they must be safe for concurrent use because a
// worker pool may process several files at once.
package pipeline

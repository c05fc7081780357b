// Package ffprobe provides a typed wrapper around ffprobe JSON output and an
// alternate probe.Prober backed by it.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Prober: probe.Prober implementation selected with tools.prober = "ffprobe"
//
// Result implements probe.Tree: video and image tracks map to video streams,
// audio tracks to audio streams, and the general track to the format section.
package ffprobe

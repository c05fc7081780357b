// Package faults defines the error markers shared by the transcoding pipeline.
//
// Every fatal condition is tagged with one of the exported sentinels so callers
// can classify failures with errors.Is without parsing messages:
//   - ErrToolInvocation: the prober or transcoder could not run or exited non-zero
//   - ErrMissingMetadata: a probed field required by a policy decision is unknown
//   - ErrFilesystem: a directory, link, stat, or rename operation failed
//   - ErrConfiguration: the run cannot start with the supplied settings
//
// Wrap stamps the component and operation onto the message so the single line
// printed by the CLI is enough to locate the failure.
package faults

package pipeline

import (
	"time"

	"medialift/internal/media"
)

// Action is what happened to one artifact.
type Action int

const (
	ActionFresh Action = iota
	ActionTranscoded
	ActionLinked
	ActionCopied
	ActionPlanned
)

func (a Action) String() string {
	switch a {
	case ActionTranscoded:
		return "transcoded"
	case ActionLinked:
		return "linked"
	case ActionCopied:
		return "copied"
	case ActionPlanned:
		return "planned"
	default:
		return "fresh"
	}
}

// ArtifactEvent describes the handling of one artifact.
type ArtifactEvent struct {
	RunID    string
	Source   media.SourceFile
	Artifact media.Artifact
	Action   Action
	Duration time.Duration
}

// FileOutcome is the per-file result folded into Stats.
type FileOutcome struct {
	Source media.SourceFile
	Events []ArtifactEvent
	Failed bool
}

// Skipped reports whether every artifact of the file was already fresh.
func (o FileOutcome) Skipped() bool {
	if o.Failed || len(o.Events) == 0 {
		return false
	}
	for _, ev := range o.Events {
		if ev.Action != ActionFresh {
			return false
		}
	}
	return true
}

// Stats accumulates counters across a run.
type Stats struct {
	Files        int
	FilesByKind  map[media.Kind]int
	SkippedFiles int
	FailedFiles  int

	Rebuilt    map[media.ArtifactKind]int
	Fresh      int
	Transcoded int
	Linked     int
	Copied     int
	Planned    int

	Elapsed time.Duration
}

// NewStats returns an empty accumulator.
func NewStats() Stats {
	return Stats{
		FilesByKind: make(map[media.Kind]int),
		Rebuilt:     make(map[media.ArtifactKind]int),
	}
}

// Add folds one file outcome into the totals.
func (s *Stats) Add(outcome FileOutcome) {
	s.ensureMaps()
	s.Files++
	s.FilesByKind[outcome.Source.Kind]++
	if outcome.Failed {
		s.FailedFiles++
	}
	if outcome.Skipped() {
		s.SkippedFiles++
	}
	for _, ev := range outcome.Events {
		switch ev.Action {
		case ActionFresh:
			s.Fresh++
			continue
		case ActionTranscoded:
			s.Transcoded++
		case ActionLinked:
			s.Linked++
		case ActionCopied:
			s.Copied++
		case ActionPlanned:
			s.Planned++
			continue
		}
		s.Rebuilt[ev.Artifact.Kind]++
	}
}

// Artifacts returns the number of artifacts written.
func (s Stats) Artifacts() int {
	return s.Transcoded + s.Linked + s.Copied
}

func (s *Stats) ensureMaps() {
	if s.FilesByKind == nil {
		s.FilesByKind = make(map[media.Kind]int)
	}
	if s.Rebuilt == nil {
		s.Rebuilt = make(map[media.ArtifactKind]int)
	}
}

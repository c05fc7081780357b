package pipeline

// Observer receives run progress. Implementations must be safe for
// concurrent use; artifact events may arrive from several workers.
type Observer interface {
	OnRunStart(runID string, inputs []string, outputDir string)
	OnArtifact(ev ArtifactEvent)
	OnRunDone(runID string, stats Stats, err error)
}

type observers []Observer

func (o observers) OnRunStart(runID string, inputs []string, outputDir string) {
	for _, obs := range o {
		obs.OnRunStart(runID, inputs, outputDir)
	}
}

func (o observers) OnArtifact(ev ArtifactEvent) {
	for _, obs := range o {
		obs.OnArtifact(ev)
	}
}

func (o observers) OnRunDone(runID string, stats Stats, err error) {
	for _, obs := range o {
		obs.OnRunDone(runID, stats, err)
	}
}

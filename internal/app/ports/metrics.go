package ports

type EpisodeMetrics interface {
	RecordStep(reward float64)
	RecordEpisodeEnd(status string)
	RecordInvalidAction()
	RecordConflict()
	RecordFailure()
}

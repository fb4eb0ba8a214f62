package event

// Pipeline
type PipelineEvent struct {
	Data interface{}
}

// PipelineEventStoppedData is sent once the scheduler returns. Err is nil or
// context.Canceled on a requested stop.
type PipelineEventStoppedData struct {
	Err error
}

package pipeline

// Event categories.
const (
	CategoryLifecycle = "lifecycle"
	CategoryInput     = "input"
	CategoryContent   = "content"
	CategoryDocument  = "document"
	CategoryScoring   = "scoring"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step      string `json:"step"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	RunID     string `json:"run_id,omitempty"`
	Iteration int    `json:"iteration,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

type emitter struct {
	runID    string
	callback ProgressCallback
}

func (e emitter) emit(stage Stage, category string, iteration int, message string, content any) {
	if e.callback == nil {
		return
	}
	e.callback(ProgressEvent{
		Step:      string(stage),
		Category:  category,
		Message:   message,
		RunID:     e.runID,
		Iteration: iteration,
		Content:   content,
	})
}

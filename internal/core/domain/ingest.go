package domain

// IngestFailure records one profile file that could not be loaded.
type IngestFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// IngestSummary reports the outcome of one ingest run. RunID identifies
// the run in logs and output.
type IngestSummary struct {
	RunID     string          `json:"run_id"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []IngestFailure `json:"failures,omitempty"`
}

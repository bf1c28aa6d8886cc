package sweep

import "hoaxify/internal/lifecycle"

type FailureResponse struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

type ReportResponse struct {
	Kind       string            `json:"kind"`
	Scanned    int               `json:"scanned"`
	Deleted    []string          `json:"deleted"`
	Skipped    int               `json:"skipped"`
	Raced      int               `json:"raced"`
	Failures   []FailureResponse `json:"failures"`
	Error      string            `json:"error,omitempty"`
	DurationMs int64             `json:"durationMs"`
}

func toResponse(r *lifecycle.Report) ReportResponse {
	res := ReportResponse{
		Kind:       string(r.Kind),
		Scanned:    r.Scanned,
		Deleted:    r.Deleted,
		Skipped:    r.Skipped,
		Raced:      r.Raced,
		Failures:   make([]FailureResponse, 0, len(r.Failures)),
		DurationMs: r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
	}
	if res.Deleted == nil {
		res.Deleted = []string{}
	}
	for _, f := range r.Failures {
		res.Failures = append(res.Failures, FailureResponse{Key: f.Key, Error: f.Err.Error()})
	}
	if r.Err != nil {
		res.Error = r.Err.Error()
	}
	return res
}

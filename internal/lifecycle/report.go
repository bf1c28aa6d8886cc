package lifecycle

import (
	"log"
	"time"
)

type Kind string

const (
	KindAttachments Kind = "attachments"
	KindTokens      Kind = "tokens"
)

// Failure is a candidate that could not be reclaimed in this pass.
type Failure struct {
	Key string
	Err error
}

// Report summarises one sweep pass.
type Report struct {
	Kind       Kind
	StartedAt  time.Time
	FinishedAt time.Time

	Scanned int
	Deleted []string
	Skipped int
	// Raced counts candidates that were claimed, refreshed or removed by
	// someone else between listing and the conditional write.
	Raced    int
	Failures []Failure

	// Err is set when the pass was aborted before visiting every candidate.
	Err error
}

// Empty reports whether the pass found nothing to do.
func (r *Report) Empty() bool {
	return len(r.Deleted) == 0 && len(r.Failures) == 0 && r.Raced == 0 && r.Err == nil
}

func (r *Report) fail(key string, err error) {
	r.Failures = append(r.Failures, Failure{Key: key, Err: err})
}

// Log writes a summary line plus one line per failure.
func (r *Report) Log() {
	for _, f := range r.Failures {
		log.Printf("sweep_failure kind=%s key=%s error=%q", r.Kind, f.Key, f.Err)
	}
	if r.Err != nil {
		log.Printf("sweep_aborted kind=%s scanned=%d deleted=%d error=%q", r.Kind, r.Scanned, len(r.Deleted), r.Err)
		return
	}
	log.Printf(
		"sweep_done kind=%s scanned=%d deleted=%d skipped=%d raced=%d failed=%d duration=%s",
		r.Kind, r.Scanned, len(r.Deleted), r.Skipped, r.Raced, len(r.Failures), r.FinishedAt.Sub(r.StartedAt),
	)
}

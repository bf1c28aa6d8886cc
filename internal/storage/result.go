package storage

// DeleteResult is the outcome of removing a blob.
type DeleteResult int

const (
	// Deleted means the blob existed and is gone now.
	Deleted DeleteResult = iota
	// NotFound means there was nothing to delete. Callers treat it as success.
	NotFound
	// Failed means the removal finished without removing the blob; the
	// accompanying error says why.
	Failed
	// Pending means the removal was started but ctx ended before it reported
	// back. The blob may disappear at any later moment.
	Pending
)

func (r DeleteResult) String() string {
	switch r {
	case Deleted:
		return "deleted"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	case Pending:
		return "pending"
	}
	return "unknown"
}

// Removed reports whether the blob is known to be absent after the call.
func (r DeleteResult) Removed() bool {
	return r == Deleted || r == NotFound
}

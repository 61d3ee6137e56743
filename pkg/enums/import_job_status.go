package enums

import "fmt"

// ImportJobStatus tracks the lifecycle of a catalog import job.
type ImportJobStatus string

const (
	ImportJobStatusPending    ImportJobStatus = "pending"
	ImportJobStatusInProgress ImportJobStatus = "in_progress"
	ImportJobStatusSuccess    ImportJobStatus = "success"
	ImportJobStatusFailed     ImportJobStatus = "failed"
)

var validImportJobStatuses = []ImportJobStatus{
	ImportJobStatusPending,
	ImportJobStatusInProgress,
	ImportJobStatusSuccess,
	ImportJobStatusFailed,
}

// String implements fmt.Stringer.
func (s ImportJobStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ImportJobStatus.
func (s ImportJobStatus) IsValid() bool {
	for _, candidate := range validImportJobStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s ImportJobStatus) IsTerminal() bool {
	return s == ImportJobStatusSuccess || s == ImportJobStatusFailed
}

// ParseImportJobStatus converts raw input into an ImportJobStatus.
func ParseImportJobStatus(value string) (ImportJobStatus, error) {
	for _, candidate := range validImportJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid import job status %q", value)
}

package domain

import "time"

// Import sources
const (
	ImportSourceFile = "file"
	ImportSourceAPI  = "api"
	ImportSourceSFTP = "sftp"
)

// Import event stages published while an import job runs.
const (
	ImportStageStarted   = "started"
	ImportStageParsed    = "parsed"
	ImportStagePersisted = "persisted"
	ImportStageFailed    = "failed"
	ImportStageFinished  = "finished"
)

// ImportEvent is published on the in-process pub/sub as an import job
// progresses, so interested subscribers can report progress.
type ImportEvent struct {
	JobID     string    `json:"job_id"`
	VendorID  int64     `json:"vendor_id"`
	Source    string    `json:"source"`
	Stage     string    `json:"stage"`
	Detail    string    `json:"detail,omitempty"`
	Rows      int       `json:"rows,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ImportReport is the outcome of an import job: how many rows were
// persisted plus per-row errors that were skipped over.
type ImportReport struct {
	JobID    string   `json:"job_id"`
	VendorID int64    `json:"vendor_id"`
	Source   string   `json:"source"`
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

package entity

import "time"

// Outcome codes for a single lead sync attempt.
const (
	SyncCodeNotFound        = "NOT_FOUND"
	SyncCodeValidationError = "VALIDATION_ERROR"
	SyncCodeCRMTimeout      = "CRM_TIMEOUT"
	SyncCodeCRMRejected     = "CRM_REJECTED"
	SyncCodeCRMUnreachable  = "CRM_UNREACHABLE"
)

// CRMResult is what the CRM gave us back for a synced lead.
type CRMResult struct {
	PersonID      string `json:"person_id,omitempty"`
	PersonCreated bool   `json:"person_created"`
	TaskID        string `json:"task_id,omitempty"`
	// TaskError keeps a task-creation failure visible without failing the
	// sync: the person upsert already landed.
	TaskError string `json:"task_error,omitempty"`
}

// SyncOutcome is the per-lead result of one sync attempt. Ephemeral, never
// persisted.
type SyncOutcome struct {
	LeadID    string     `json:"lead_id"`
	Success   bool       `json:"success"`
	Code      string     `json:"code,omitempty"`
	Error     string     `json:"error,omitempty"`
	CRMResult *CRMResult `json:"crm_response,omitempty"`
}

// SyncReport aggregates a batch sync. Outcomes follow the store's listing
// order and each lead appears exactly once.
type SyncReport struct {
	BatchID    string        `json:"batch_id"`
	Total      int           `json:"total"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Outcomes   []SyncOutcome `json:"results"`
}

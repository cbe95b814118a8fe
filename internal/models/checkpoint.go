package models

import "time"

// Checkpoint is a durable cursor for resumability. Overwritten at each
// checkpoint tick; the last checkpoint written for a workflow type wins.
type Checkpoint struct {
	WorkflowType      string             `json:"workflow_type"`
	ProcessedJobIDs   []string           `json:"processed_job_ids"`
	Timestamp         time.Time          `json:"timestamp"`
	EngineStatus      string             `json:"engine_status"`
	PerformanceMetrics PerformanceSnapshot `json:"performance_metrics"`
}

package history

import "time"

const SchemaVersion = 1

// Snapshot summarizes one analysis run.
type Snapshot struct {
	RunID          string        `json:"run_id" yaml:"run_id"`
	ProjectKey     string        `json:"project_key" yaml:"project_key"`
	SchemaVersion  int           `json:"schema_version" yaml:"schema_version"`
	Timestamp      time.Time     `json:"timestamp" yaml:"timestamp"`
	FileCount      int           `json:"file_count" yaml:"file_count"`
	FailureCount   int           `json:"failure_count" yaml:"failure_count"`
	TypeCount      int           `json:"type_count" yaml:"type_count"`
	EdgeCount      int           `json:"edge_count" yaml:"edge_count"`
	ComponentCount int           `json:"component_count" yaml:"component_count"`
	CyclicCount    int           `json:"cyclic_count" yaml:"cyclic_count"`
	MaxFanIn       int           `json:"max_fan_in" yaml:"max_fan_in"`
	MaxFanOut      int           `json:"max_fan_out" yaml:"max_fan_out"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

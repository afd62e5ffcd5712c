package entity

import "time"

// RunRecord describes the last successful update. It is informational and
// never used to skip a run.
type RunRecord struct {
	IP        string    `yaml:"ip"`
	Outcome   string    `yaml:"outcome"`
	RunID     string    `yaml:"run_id"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

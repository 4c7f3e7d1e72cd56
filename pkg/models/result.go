package models

import "time"

// CollectResult contains the outcome of one enumeration query
type CollectResult struct {
	// Summary
	Strategy   string        `json:"strategy" yaml:"strategy"`
	Pattern    string        `json:"pattern" yaml:"pattern"`
	StartTime  time.Time     `json:"start_time" yaml:"start_time"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Candidates int           `json:"candidates" yaml:"candidates"` // Paths that survived pattern and exclusion filtering

	// Records in emission order (unordered for the parallel strategies)
	Records []*FileRecord `json:"records" yaml:"records"`

	// Statistics
	Stats *CollectStatistics `json:"statistics" yaml:"statistics"`
}

// CollectStatistics contains per-query counters
type CollectStatistics struct {
	Files        int    `json:"files" yaml:"files"`
	Dirs         int    `json:"dirs" yaml:"dirs"`
	Symlinks     int    `json:"symlinks" yaml:"symlinks"`
	Skipped      int    `json:"skipped" yaml:"skipped"`             // Not-found, permission denied, no-follow symlinks
	HashFailures int    `json:"hash_failures" yaml:"hash_failures"` // Records kept without a hash
	Panics       int    `json:"panics" yaml:"panics"`               // Recovered worker panics
	HashedBytes  uint64 `json:"hashed_bytes" yaml:"hashed_bytes"`
	WorkersUsed  int    `json:"workers_used" yaml:"workers_used"`
}

// AddRecord appends a record and updates type counters
func (r *CollectResult) AddRecord(rec *FileRecord) {
	r.Records = append(r.Records, rec)
	if r.Stats == nil {
		r.Stats = &CollectStatistics{}
	}
	switch {
	case rec.IsFile:
		r.Stats.Files++
	case rec.IsDir:
		r.Stats.Dirs++
	}
	if rec.IsSymlink {
		r.Stats.Symlinks++
	}
}

// Paths returns the record paths in result order
func (r *CollectResult) Paths() []string {
	paths := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		paths = append(paths, rec.Path)
	}
	return paths
}

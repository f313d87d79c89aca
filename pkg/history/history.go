// pkg/history/history.go
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// Entry is one recorded cleaning run
type Entry struct {
	ID       int64  `db:"id" json:"id"`
	Owner    string `db:"owner" json:"owner"`
	Filename string `db:"filename" json:"filename"`
	RunID    string `db:"run_id" json:"run_id"`
	model.CleaningMetrics
	Options   string    `db:"options" json:"options"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewEntry builds an entry from the outcome of a run. The config is stored
// as JSON so the run can be repeated with the same options.
func NewEntry(owner, filename, runID string, metrics model.CleaningMetrics, cfg model.CleaningConfig) (*Entry, error) {
	options, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cleaning options: %w", err)
	}

	return &Entry{
		Owner:           owner,
		Filename:        filename,
		RunID:           runID,
		CleaningMetrics: metrics,
		Options:         string(options),
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Config decodes the stored cleaning options
func (e *Entry) Config() (model.CleaningConfig, error) {
	var cfg model.CleaningConfig
	if err := json.Unmarshal([]byte(e.Options), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode cleaning options: %w", err)
	}
	return cfg, nil
}

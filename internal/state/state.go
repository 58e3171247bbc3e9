package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
)

// MaxRecords caps the journal; the oldest records are dropped first.
const MaxRecords = 500

// Journal records completed renames so they can be listed later.
type Journal struct {
	mu       sync.RWMutex
	filePath string
	Records  []types.RenameRecord `json:"records"`
	LastRun  time.Time            `json:"last_run"`
}

func New(filePath string) *Journal {
	return &Journal{filePath: filePath}
}

func Load(filePath string) (*Journal, error) {
	j := New(filePath)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return j, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, j); err != nil {
		return nil, err
	}

	return j, nil
}

func (j *Journal) Save() error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(j.filePath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(j.filePath, data, 0644)
}

// Record appends a rename and saves the journal.
func (j *Journal) Record(from, to string, action types.RenameAction) error {
	j.mu.Lock()
	now := time.Now()
	j.Records = append(j.Records, types.RenameRecord{
		From:      from,
		To:        to,
		Action:    action,
		Timestamp: now,
	})
	if len(j.Records) > MaxRecords {
		j.Records = j.Records[len(j.Records)-MaxRecords:]
	}
	j.LastRun = now
	j.mu.Unlock()

	return j.Save()
}

// Recent returns up to limit records, oldest first. limit <= 0 returns all.
func (j *Journal) Recent(limit int) []types.RenameRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()

	records := j.Records
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]types.RenameRecord, len(records))
	copy(out, records)
	return out
}

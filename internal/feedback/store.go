// Package feedback persists thumbs up/down reactions to answers as
// append-only JSON lines in a local file. The file is the product team's
// input for tuning the knowledge base; losing a line is acceptable,
// blocking a conversation is not.
//
// Deployments that want feedback in the analytics database use the
// interactionlog PostgreSQL sink instead; both can run side by side.
package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Record is a single feedback entry written to the file store.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id"`
	TopicID    string    `json:"topic_id"`
	Confidence float64   `json:"confidence,omitempty"`
	Value      string    `json:"value"` // "up" or "down"
}

// FileStore persists feedback as JSON lines in a local file.
// Thread-safe for concurrent use.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore that writes to the given path.
// The file is created if it does not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save appends one feedback record to the file.
func (fs *FileStore) Save(sessionID, topicID string, confidence float64, up bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	value := "down"
	if up {
		value = "up"
	}
	record := Record{
		Timestamp:  time.Now().UTC(),
		SessionID:  sessionID,
		TopicID:    topicID,
		Confidence: confidence,
		Value:      value,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("feedback: marshal: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(fs.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("feedback: open file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("feedback: write: %w", err)
	}
	return nil
}

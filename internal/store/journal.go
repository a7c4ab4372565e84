package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"glimpse/internal/errors"
)

// Audit pseudo-record identity under which assembled prompts are journaled.
const (
	AuditApp    = "AI_ASSISTANT"
	AuditWindow = "PROMPT"
)

// Record is one journal line: the deduplicated text set observed for a
// single (app, window, url) group during one flush cycle.
type Record struct {
	App    string   `json:"app"`
	Window string   `json:"window"`
	URL    string   `json:"url,omitempty"`
	Texts  []string `json:"texts"`
}

// Journal is the append-only JSON-Lines log. Prior lines are never
// rewritten; the only write operation is appending whole records.
type Journal struct {
	path string
	file *os.File
	log  *zap.Logger
}

// OpenJournal opens (creating if absent) the journal at path.
func OpenJournal(path string, log *zap.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.NewPersistenceIO("mkdir", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, errors.NewPersistenceIO("open", err)
	}
	return &Journal{path: path, file: file, log: log}, nil
}

// Append writes one record as a single line. On write failure it falls back
// to a full read-modify-write of the log file; the failure is logged, never
// fatal.
func (j *Journal) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.NewInternal(err)
	}
	line := append(data, '\n')

	if _, err := j.file.Write(line); err == nil {
		return nil
	} else {
		j.log.Warn("journal append failed, recovering via rewrite",
			zap.String("path", j.path), zap.Error(err))
	}

	// Recovery path: reread everything, re-append, replace the handle.
	existing, readErr := os.ReadFile(j.path)
	if readErr != nil && !os.IsNotExist(readErr) {
		return errors.NewPersistenceIO("recover-read", readErr)
	}
	if writeErr := os.WriteFile(j.path, append(existing, line...), 0600); writeErr != nil {
		return errors.NewPersistenceIO("recover-write", writeErr)
	}

	if file, openErr := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); openErr == nil {
		j.file.Close()
		j.file = file
	}
	return nil
}

// AppendAudit journals an assembled prompt under the audit pseudo-identity.
func (j *Journal) AppendAudit(prompt string) error {
	return j.Append(Record{App: AuditApp, Window: AuditWindow, Texts: []string{prompt}})
}

// Replay streams every decodable record to fn. Malformed lines are skipped
// individually and logged; only the read itself can fail.
func (j *Journal) Replay(fn func(Record)) error {
	file, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewPersistenceIO("replay-open", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			j.log.Warn("skipping malformed journal line",
				zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		fn(rec)
	}
	if err := scanner.Err(); err != nil {
		return errors.NewPersistenceIO("replay-scan", err)
	}
	return nil
}

// Close releases the file handle.
func (j *Journal) Close() error {
	return j.file.Close()
}

package sessions

import (
	"encoding/json"
	"fmt"
	"io"
)

// Summary is the check view of the registry.
type Summary struct {
	Total         int      `json:"total"`
	Orchestrators int      `json:"orchestrators"`
	Sessions      []Record `json:"sessions"`
}

// Summarize counts records and orchestrators.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records), Sessions: records}
	if s.Sessions == nil {
		s.Sessions = []Record{}
	}
	for _, r := range records {
		if r.Role == OrchestratorRole {
			s.Orchestrators++
		}
	}
	return s
}

// WriteText prints the count line followed by one line per session.
func (s Summary) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d active session(s), %d orchestrator(s)\n", s.Total, s.Orchestrators); err != nil {
		return err
	}
	for _, r := range s.Sessions {
		if _, err := fmt.Fprintf(w, "  [%s] PID %d  %s\n", r.Role, r.PID, r.Cwd); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON prints the summary as indented JSON.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteRecordsJSON prints records as an indented JSON array, "[]" when empty.
func WriteRecordsJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

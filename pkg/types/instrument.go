package types

import (
	"fmt"
	"strings"
)

// Question is one item of an instrument.
type Question struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Stem returns the shared lead-in before the "..." separator, including the
// separator. Returns "" when the text has no separator.
func (q Question) Stem() string {
	before, _, ok := strings.Cut(q.Text, "...")
	if !ok {
		return ""
	}
	return before + "..."
}

// Item returns the part of the text after the "..." separator, or the full
// text when there is none.
func (q Question) Item() string {
	_, after, ok := strings.Cut(q.Text, "...")
	if !ok {
		return q.Text
	}
	return strings.TrimSpace(after)
}

// Instrument describes one role-specific variant of the questionnaire. The
// variants share mechanics and differ only in wording and file name.
type Instrument struct {
	Role         Role       `yaml:"role" json:"role"`
	Title        string     `yaml:"title" json:"title"`
	Heading      string     `yaml:"heading" json:"heading"`
	Instructions string     `yaml:"instructions" json:"instructions"`
	FileSuffix   string     `yaml:"file_suffix" json:"file_suffix"`
	Questions    []Question `yaml:"questions" json:"questions"`
}

// FileName returns the record file name for userID, for example
// "p007_procs.csv" or "p007_listener_procs.csv".
func (in Instrument) FileName(userID string) string {
	return userID + "_" + in.FileSuffix + "procs.csv"
}

// Header returns the CSV header row: "User ID" followed by one
// "Question N" column per question.
func (in Instrument) Header() []string {
	header := make([]string, 0, len(in.Questions)+1)
	header = append(header, "User ID")
	for i := range in.Questions {
		header = append(header, fmt.Sprintf("Question %d", i+1))
	}
	return header
}

// Validate checks that the instrument is usable: a known role, at least
// one question, unique non-empty question IDs, and non-empty text.
func (in Instrument) Validate() error {
	if !in.Role.Valid() {
		return fmt.Errorf("instrument %q: %w", in.Role, ErrRoleUnknown)
	}
	if len(in.Questions) == 0 {
		return fmt.Errorf("instrument %s: no questions", in.Role)
	}
	seen := make(map[string]bool, len(in.Questions))
	for i, q := range in.Questions {
		if q.ID == "" {
			return fmt.Errorf("instrument %s: question %d has no id", in.Role, i+1)
		}
		if seen[q.ID] {
			return fmt.Errorf("instrument %s: duplicate question id %q", in.Role, q.ID)
		}
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("instrument %s: question %q has no text", in.Role, q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

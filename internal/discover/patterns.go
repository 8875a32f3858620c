package discover

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-cli/internal/model"
)

// PatternEntry is one role-based mailbox guess: the local part, a human
// role label, and a heuristic confidence weight.
type PatternEntry struct {
	Local      string `yaml:"local"`
	Role       string `yaml:"role"`
	Confidence int    `yaml:"confidence"`
}

// PatternTable holds the role-based mailbox patterns used for business
// entity fallback suggestions.
type PatternTable struct {
	Entries []PatternEntry `yaml:"patterns"`
}

// DefaultPatterns returns the built-in hospitality pattern table.
// Weights follow the usual reachability of each mailbox class: general
// inquiry boxes are monitored almost everywhere, HR boxes rarely.
func DefaultPatterns() *PatternTable {
	return &PatternTable{Entries: []PatternEntry{
		{Local: "info", Role: "General Inquiries", Confidence: 85},
		{Local: "contact", Role: "Contact", Confidence: 80},
		{Local: "hello", Role: "General Inquiries", Confidence: 72},
		{Local: "events", Role: "Events", Confidence: 75},
		{Local: "catering", Role: "Catering", Confidence: 68},
		{Local: "owner", Role: "Owner", Confidence: 70},
		{Local: "manager", Role: "Manager", Confidence: 64},
		{Local: "gm", Role: "General Manager", Confidence: 62},
		{Local: "director", Role: "Director", Confidence: 58},
		{Local: "reservations", Role: "Reservations", Confidence: 60},
		{Local: "frontdesk", Role: "Front Desk", Confidence: 55},
		{Local: "office", Role: "Office", Confidence: 52},
		{Local: "marketing", Role: "Marketing", Confidence: 58},
		{Local: "partnerships", Role: "Partnerships", Confidence: 52},
		{Local: "hr", Role: "HR", Confidence: 45},
		{Local: "careers", Role: "Careers", Confidence: 40},
	}}
}

// LoadPatterns reads a pattern table override from a YAML file.
func LoadPatterns(path string) (*PatternTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "discover: read patterns %s", path)
	}
	var table PatternTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, eris.Wrap(err, "discover: parse patterns")
	}
	if len(table.Entries) == 0 {
		return nil, eris.Errorf("discover: patterns file %s has no entries", path)
	}
	return &table, nil
}

// Suggestions renders the table against a domain, skipping any address in
// exclude, sorted by descending confidence. Equal confidences keep table
// order so output is deterministic.
func (t *PatternTable) Suggestions(domain string, exclude map[string]bool) []model.EmailSuggestion {
	out := make([]model.EmailSuggestion, 0, len(t.Entries))
	for _, e := range t.Entries {
		addr := e.Local + "@" + domain
		if exclude[addr] {
			continue
		}
		out = append(out, model.EmailSuggestion{Email: addr, Role: e.Role, Confidence: e.Confidence})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

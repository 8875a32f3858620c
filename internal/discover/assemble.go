package discover

import (
	"sort"

	"github.com/sells-group/prospect-cli/internal/model"
)

// assemble converts the run's accumulated state into the final result.
// Owners come out in insertion order; suggestions are already sorted and
// capped by the enrichment stage.
func (r *run) assemble() *model.DiscoveryResult {
	owners := r.owners.snapshot()
	suggestions := r.suggestions
	if suggestions == nil {
		suggestions = []model.EmailSuggestion{}
	}
	return &model.DiscoveryResult{
		BusinessName:      r.biz.Name,
		Domain:            r.domain,
		Owners:            owners,
		BusinessInfo:      r.info,
		HospitalityEmails: suggestions,
		Meta:              r.meta,
	}
}

func sortSuggestions(s []model.EmailSuggestion) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Confidence > s[j].Confidence })
}

// ContactList flattens a result into an outreach-ready ordering: owners
// with a resolved email first, then the rest. Hospitality suggestions are
// deliberately excluded; a guessed mailbox is not a contact.
func ContactList(result *model.DiscoveryResult) []model.Owner {
	contacts := make([]model.Owner, 0, len(result.Owners))
	for _, o := range result.Owners {
		if o.Email != "" {
			contacts = append(contacts, o)
		}
	}
	for _, o := range result.Owners {
		if o.Email == "" {
			contacts = append(contacts, o)
		}
	}
	return contacts
}

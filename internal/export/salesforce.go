package export

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/discover"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/salesforce"
)

// SalesforceExporter inserts contacts as Salesforce Leads.
type SalesforceExporter struct {
	client salesforce.Client
}

// NewSalesforceExporter creates a SalesforceExporter.
func NewSalesforceExporter(client salesforce.Client) *SalesforceExporter {
	return &SalesforceExporter{client: client}
}

// Export inserts one Lead per owner. Owners without a last name never
// occur (the pipeline requires first+last), so every record is valid for
// the Lead object's required LastName field. Returns the number of
// successful inserts.
func (e *SalesforceExporter) Export(ctx context.Context, result *model.DiscoveryResult) (int, error) {
	contacts := discover.ContactList(result)
	if len(contacts) == 0 {
		return 0, nil
	}

	records := make([]map[string]any, 0, len(contacts))
	for _, o := range contacts {
		rec := map[string]any{
			"FirstName":  o.FirstName,
			"LastName":   o.LastName,
			"Company":    result.BusinessName,
			"Title":      o.Title,
			"LeadSource": "Prospect Discovery",
		}
		if o.Email != "" {
			rec["Email"] = o.Email
		}
		if o.Phone != "" {
			rec["Phone"] = o.Phone
		}
		records = append(records, rec)
	}

	results, err := e.client.InsertCollection(ctx, "Lead", records)
	if err != nil {
		return 0, eris.Wrap(err, "export: insert leads")
	}

	ok := 0
	for i, r := range results {
		if r.Success {
			ok++
			continue
		}
		zap.L().Warn("export: lead insert failed",
			zap.String("name", contacts[i].Name),
			zap.Strings("errors", r.Errors),
		)
	}
	return ok, nil
}

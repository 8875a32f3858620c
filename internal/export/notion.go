package export

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/discover"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/notion"
)

// NotionExporter writes contacts into a Notion database, one page per
// owner. Pages already present (matched by email) are skipped.
type NotionExporter struct {
	client notion.Client
	dbID   string
}

// NewNotionExporter creates a NotionExporter targeting the given database.
func NewNotionExporter(client notion.Client, dbID string) *NotionExporter {
	return &NotionExporter{client: client, dbID: dbID}
}

// Export pushes a run's contact list. Returns the number of pages created.
func (e *NotionExporter) Export(ctx context.Context, result *model.DiscoveryResult) (int, error) {
	created := 0
	for _, o := range discover.ContactList(result) {
		if o.Email != "" {
			exists, err := e.emailExists(ctx, o.Email)
			if err != nil {
				return created, err
			}
			if exists {
				zap.L().Debug("export: contact already in notion", zap.String("email", o.Email))
				continue
			}
		}

		props := notionapi.Properties{
			"Name": notionapi.TitleProperty{
				Title: []notionapi.RichText{{Text: &notionapi.Text{Content: o.Name}}},
			},
			"Business": notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: result.BusinessName}}},
			},
			"Title": notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: o.Title}}},
			},
			"Source": notionapi.SelectProperty{
				Select: notionapi.Option{Name: string(o.Source)},
			},
		}
		if o.Email != "" {
			props["Email"] = notionapi.EmailProperty{Email: o.Email}
			props["Confidence"] = notionapi.NumberProperty{Number: float64(o.EmailConfidence)}
		}

		_, err := e.client.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(e.dbID),
			},
			Properties: props,
		})
		if err != nil {
			return created, eris.Wrapf(err, "export: create notion page for %s", o.Name)
		}
		created++
	}
	return created, nil
}

func (e *NotionExporter) emailExists(ctx context.Context, email string) (bool, error) {
	resp, err := e.client.QueryDatabase(ctx, e.dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "Email",
			RichText: &notionapi.TextFilterCondition{Equals: email},
		},
		PageSize: 1,
	})
	if err != nil {
		return false, eris.Wrap(err, "export: query notion for email")
	}
	return len(resp.Results) > 0, nil
}

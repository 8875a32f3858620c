// Package export projects completed discovery runs into external systems:
// xlsx workbooks for hand-off, Notion databases for pipeline review, and
// Salesforce leads for outreach.
package export

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/discover"
	"github.com/sells-group/prospect-cli/internal/model"
)

// WriteWorkbook writes a run's contact list and mailbox suggestions to an
// xlsx file with one sheet per projection.
func WriteWorkbook(path string, result *model.DiscoveryResult) error {
	file := xlsx.NewFile()

	contacts, err := file.AddSheet("Contacts")
	if err != nil {
		return eris.Wrap(err, "export: add contacts sheet")
	}
	header := contacts.AddRow()
	for _, h := range []string{"Name", "Title", "Email", "Confidence", "Email Source", "Phone", "Source"} {
		header.AddCell().SetString(h)
	}
	for _, o := range discover.ContactList(result) {
		row := contacts.AddRow()
		row.AddCell().SetString(o.Name)
		row.AddCell().SetString(o.Title)
		row.AddCell().SetString(o.Email)
		if o.Email != "" {
			row.AddCell().SetString(strconv.Itoa(o.EmailConfidence))
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(string(o.EmailSource))
		row.AddCell().SetString(o.Phone)
		row.AddCell().SetString(string(o.Source))
	}

	suggestions, err := file.AddSheet("Suggestions")
	if err != nil {
		return eris.Wrap(err, "export: add suggestions sheet")
	}
	header = suggestions.AddRow()
	for _, h := range []string{"Email", "Role", "Confidence"} {
		header.AddCell().SetString(h)
	}
	for _, s := range result.HospitalityEmails {
		row := suggestions.AddRow()
		row.AddCell().SetString(s.Email)
		row.AddCell().SetString(s.Role)
		row.AddCell().SetString(strconv.Itoa(s.Confidence))
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/notion"
	"github.com/sells-group/prospect-cli/pkg/salesforce"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a completed run's contacts",
	Long:  "Exports the discovered contacts of a completed run to an xlsx workbook, a Notion database, or Salesforce leads.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "load run %s", args[0])
		}
		if run.Status != model.RunStatusComplete || run.Result == nil {
			return eris.Errorf("run %s is %s, only complete runs can be exported", run.ID, run.Status)
		}

		switch exportFormat {
		case "xlsx":
			out := exportOut
			if out == "" {
				out = run.ID + ".xlsx"
			}
			if err := export.WriteWorkbook(out, run.Result); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", out))
			return nil

		case "notion":
			if cfg.Notion.Token == "" || cfg.Notion.ContactsDB == "" {
				return eris.New("notion export requires PROSPECT_NOTION_TOKEN and PROSPECT_NOTION_CONTACTS_DB")
			}
			exporter := export.NewNotionExporter(notion.NewClient(cfg.Notion.Token), cfg.Notion.ContactsDB)
			n, err := exporter.Export(ctx, run.Result)
			if err != nil {
				return err
			}
			zap.L().Info("notion export complete", zap.Int("created", n))
			return nil

		case "salesforce":
			if cfg.Salesforce.ClientID == "" {
				return eris.New("salesforce export requires PROSPECT_SF_CLIENT_ID")
			}
			sf, err := salesforce.NewJWTClient(salesforce.JWTConfig{
				Domain:   cfg.Salesforce.LoginURL,
				ClientID: cfg.Salesforce.ClientID,
				Username: cfg.Salesforce.Username,
				KeyPath:  cfg.Salesforce.KeyPath,
			})
			if err != nil {
				return err
			}
			n, err := export.NewSalesforceExporter(sf).Export(ctx, run.Result)
			if err != nil {
				return err
			}
			zap.L().Info("salesforce export complete", zap.Int("inserted", n))
			return nil

		default:
			return eris.Errorf("unsupported export format: %s", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "export format: xlsx, notion, or salesforce")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path for xlsx export (default <run-id>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}

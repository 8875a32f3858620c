package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	discoverName    string
	discoverCity    string
	discoverState   string
	discoverWebsite string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover decision-makers for a single business",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		orch, err := initOrchestrator()
		if err != nil {
			return err
		}

		biz := model.Business{
			Name:    discoverName,
			City:    discoverCity,
			State:   discoverState,
			Website: discoverWebsite,
		}

		run, err := discoverAndPersist(ctx, st, orch, biz)
		if err != nil {
			return err
		}

		zap.L().Info("discovery complete",
			zap.String("run_id", run.ID),
			zap.String("business", biz.Name),
			zap.Int("owners", len(run.Result.Owners)),
			zap.Int("suggestions", len(run.Result.HospitalityEmails)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run.Result)
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverName, "name", "", "business name (required)")
	discoverCmd.Flags().StringVar(&discoverCity, "city", "", "business city (required)")
	discoverCmd.Flags().StringVar(&discoverState, "state", "", "business state")
	discoverCmd.Flags().StringVar(&discoverWebsite, "website", "", "business website, skips domain lookup when set")
	discoverCmd.MarkFlagRequired("name") //nolint:errcheck
	discoverCmd.MarkFlagRequired("city") //nolint:errcheck
	rootCmd.AddCommand(discoverCmd)
}

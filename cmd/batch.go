package main

import (
	"encoding/csv"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/model"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch <csv-file>",
	Short: "Discover decision-makers for businesses listed in a CSV file",
	Long:  "Reads rows of name,city,state,website (header optional) and runs discovery for each, bounded by batch.max_concurrent.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		businesses, err := readBatchCSV(args[0])
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(businesses) > batchLimit {
			businesses = businesses[:batchLimit]
		}
		if len(businesses) == 0 {
			zap.L().Warn("no businesses in input file")
			return nil
		}

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

		var completed, failed atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrent)

		for _, biz := range businesses {
			g.Go(func() error {
				run, err := discoverAndPersist(gctx, st, orch, biz)
				if err != nil {
					failed.Add(1)
					zap.L().Error("batch discovery failed",
						zap.String("business", biz.Name),
						zap.Error(err),
					)
					return nil
				}
				completed.Add(1)
				zap.L().Info("batch discovery complete",
					zap.String("run_id", run.ID),
					zap.String("business", biz.Name),
					zap.Int("owners", len(run.Result.Owners)),
				)
				return nil
			})
		}
		_ = g.Wait()

		zap.L().Info("batch finished",
			zap.Int64("completed", completed.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

// readBatchCSV parses rows of name,city,state,website. A first row whose
// name column equals "name" is treated as a header and skipped.
func readBatchCSV(path string) ([]model.Business, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var businesses []model.Business
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "parse %s", path)
		}
		if len(row) < 2 {
			continue
		}
		if first {
			first = false
			if row[0] == "name" {
				continue
			}
		}

		biz := model.Business{Name: row[0], City: row[1]}
		if len(row) > 2 {
			biz.State = row[2]
		}
		if len(row) > 3 {
			biz.Website = row[3]
		}
		businesses = append(businesses, biz)
	}

	return businesses, nil
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of rows to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

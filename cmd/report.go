package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportBorough string
	reportSave    bool
	reportNotify  bool
)

var reportCmd = &cobra.Command{
	Use:   "report <address>",
	Short: "Build a compliance report for a single property",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		address := strings.Join(args, " ")

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		record, err := env.Aggregator.Report(ctx, address, reportBorough)
		if err != nil {
			return eris.Wrap(err, "build report")
		}

		zap.L().Info("report complete",
			zap.String("address", record.Address),
			zap.String("bin", record.BIN),
			zap.Float64("overall_score", record.OverallScore),
			zap.String("data_sources", record.DataSources),
		)

		if reportSave {
			if env.Store == nil {
				return eris.New("--save requires a configured store")
			}
			if err := env.Store.SaveRecord(ctx, record); err != nil {
				return eris.Wrap(err, "save record")
			}
		}

		if reportNotify {
			if env.Relay == nil {
				return eris.New("--notify requires a configured webhook url")
			}
			if _, err := env.Relay.Forward(ctx, record, nil); err != nil {
				return eris.Wrap(err, "forward record")
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportBorough, "borough", "", "borough hint appended to the geocoder query")
	reportCmd.Flags().BoolVar(&reportSave, "save", false, "persist the record to the configured store")
	reportCmd.Flags().BoolVar(&reportNotify, "notify", false, "forward the record to the configured webhook")
	rootCmd.AddCommand(reportCmd)
}

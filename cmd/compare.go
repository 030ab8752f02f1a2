package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lotcheck/internal/model"
)

var (
	compareURL      string
	compareResearch bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare all lots behind a Catawiki URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		resp, err := env.Service.Run(ctx, compareURL, compareResearch)
		if err != nil {
			return eris.Wrap(err, "compare run")
		}

		verdicts := make(map[model.Verdict]int)
		for _, item := range resp.Items {
			if item.Analysis != nil {
				verdicts[item.Analysis.Verdict]++
			}
		}
		zap.L().Info("compare complete",
			zap.Int("items", len(resp.Items)),
			zap.Int("underpriced", verdicts[model.VerdictUnderpriced]),
			zap.Int("fair", verdicts[model.VerdictFair]),
			zap.Int("overpriced", verdicts[model.VerdictOverpriced]),
			zap.Int("unknown", verdicts[model.VerdictUnknown]),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareURL, "url", "", "Catawiki lot or listing page URL (required)")
	compareCmd.Flags().BoolVar(&compareResearch, "research", true, "include LLM research listings")
	_ = compareCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(compareCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/ESDS/internal/app/run"
	"github.com/John-Robertt/ESDS/internal/infra/fsx"
)

func newSyncCommand(flags *rootFlags) *cobra.Command {
	var (
		dryRun bool
		backup bool
		report bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "过滤 gamelist、复制素材、写出子集 gamelist 到 SD 卡",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), flags.verbose)

			opts, err := buildOptions(flags)
			if err != nil {
				return err
			}
			opts.Backup = backup
			opts.Report = report

			mode := "真实写入"
			if dryRun {
				mode = "演练（不落盘）"
			}
			logger.Info("同步开始",
				"master", opts.MasterRoot,
				"sd", opts.SDRoot,
				"systems", strings.Join(opts.Systems, ", "),
				"categories", joinCategories(opts.Categories),
				"mode", mode,
				"fuzzy", opts.Fuzzy,
			)

			ops := fsx.Ops{DryRun: dryRun, Log: logger}
			stats := run.Sync(opts, ops, logger)

			fmt.Fprintln(cmd.OutOrStdout(), renderStatsTable(stats))
			if dryRun {
				logger.Info("演练完成：以上统计与真实写入完全一致")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "演练模式：打印全部动作与统计，不写任何文件")
	cmd.Flags().BoolVar(&backup, "backup-gamelist", false, "覆盖前把现有 gamelist.xml 备份为带时间戳的副本")
	cmd.Flags().BoolVar(&report, "report", false, "逐 ROM 打印命中/缺失类别")

	return cmd
}

package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/ESDS/internal/app/run"
	"github.com/John-Robertt/ESDS/internal/domain"
	"github.com/John-Robertt/ESDS/internal/infra/fsx"
)

func newAuditCommand(flags *rootFlags) *cobra.Command {
	var (
		csvPath string
		suggest bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "只读比对 SD 上的 ROM 与主库元数据/素材，产出问题清单",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), flags.verbose)

			opts, err := buildOptions(flags)
			if err != nil {
				return err
			}
			opts.Suggest = suggest

			logger.Info("审计启动",
				"master", opts.MasterRoot,
				"sd", opts.SDRoot,
				"systems", strings.Join(opts.Systems, ", "),
				"categories", joinCategories(opts.Categories),
				"fuzzy", opts.Fuzzy,
			)

			report := run.Audit(opts, logger)

			if report.Problems > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderAuditTable(report))
			} else {
				logger.Info("审计完成：无问题条目", "systems_audited", report.SystemsAudited)
			}

			if csvPath != "" {
				if err := writeAuditCSV(csvPath, report); err != nil {
					return fmt.Errorf("写入 CSV 失败：%w", err)
				}
				logger.Info("问题清单已导出", "csv", csvPath, "rows", report.Problems)
			}

			if report.Problems > 0 {
				return errAuditIssues
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "把问题清单导出为 CSV 文件")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "为缺失素材打印最近名建议")

	return cmd
}

// writeAuditCSV 原子写出问题清单（只含问题条目；无问题时仍写出表头）。
func writeAuditCSV(path string, report domain.AuditReport) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"system", "rom_filename", "in_master_gamelist", "missing_categories", "note"}); err != nil {
		return err
	}
	for _, it := range report.Items {
		if !it.IsProblem() {
			continue
		}
		row := []string{
			it.System,
			it.RomFilename,
			yesNo(it.InMasterGamelist),
			strings.Join(domain.CategoryNames(it.MissingCategories), ","),
			it.Note,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return fsx.WriteFileAtomic(filepath.Dir(path), filepath.Base(path), buf.Bytes())
}

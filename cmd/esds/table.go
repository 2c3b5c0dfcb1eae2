package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/John-Robertt/ESDS/internal/domain"
)

// renderStatsTable 渲染 sync 结束后的统计摘要（两列，数值右对齐）。
func renderStatsTable(stats domain.RunStats) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"指标", "数量"})

	for _, r := range []struct {
		name  string
		value int
	}{
		{"systems_seen", stats.SystemsSeen},
		{"systems_processed", stats.SystemsProcessed},
		{"games_total_in_master", stats.GamesTotalInMaster},
		{"games_kept", stats.GamesKept},
		{"media_files_copied", stats.MediaFilesCopied},
		{"media_files_skipped", stats.MediaFilesSkipped},
		{"media_categories_attempted", stats.MediaCategoriesAttempted},
		{"media_categories_missing", stats.MediaCategoriesMissing},
		{"categories_ignored_empty_or_missing", stats.CategoriesIgnoredEmptyOrMissing},
		{"gamelists_written", stats.GamelistsWritten},
	} {
		tw.AppendRow(table.Row{r.name, r.value})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// renderAuditTable 渲染审计问题清单（只含问题条目）。
func renderAuditTable(report domain.AuditReport) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"系统", "ROM", "在主 gamelist", "缺失类别", "说明"})

	for _, it := range report.Items {
		if !it.IsProblem() {
			continue
		}
		tw.AppendRow(table.Row{it.System, it.RomFilename, yesNo(it.InMasterGamelist), joinCategories(it.MissingCategories), it.Note})
	}

	tw.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("问题条目：%d", report.Problems)})
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinCategories(cats []domain.Category) string {
	return strings.Join(domain.CategoryNames(cats), ", ")
}

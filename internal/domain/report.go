package domain

import "sort"

// RunStats 是同步模式的全程累加器。
//
// 约束：它只向外输出（摘要/报表），任何字段都不得反过来影响处理决策；
// 跨系统累加时显式传递，不做包级可变状态。
type RunStats struct {
	SystemsSeen      int
	SystemsProcessed int

	GamesTotalInMaster int
	GamesKept          int

	MediaFilesCopied  int
	MediaFilesSkipped int

	// "missing" 的语义：某个期望类别没有匹配到任何素材文件。
	MediaCategoriesAttempted int
	MediaCategoriesMissing   int

	// 在 NAS 上目录缺失/为空而被整体剪除的类别计数（全局缺口，不按 ROM 上报）。
	CategoriesIgnoredEmptyOrMissing int

	GamelistsWritten int
}

// AuditItem 是审计模式中一条问题记录（对应 CSV 的一行）。
type AuditItem struct {
	System            string
	RomFilename       string
	InMasterGamelist  bool
	MissingCategories []Category
	Note              string
}

// IsProblem 判断该条目是否真实构成问题（缺元数据或缺素材）。
func (it AuditItem) IsProblem() bool {
	return !it.InMasterGamelist || len(it.MissingCategories) > 0
}

// AuditReport 是一次审计运行的对外输出。
type AuditReport struct {
	SystemsAudited int
	Items          []AuditItem

	Problems int
}

// Finalize 做两件事：
// 1) items 稳定排序：按 (system, rom_filename) 字典序
// 2) Problems 由 items 计算得出
func (r *AuditReport) Finalize() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		a, b := r.Items[i], r.Items[j]
		if a.System != b.System {
			return a.System < b.System
		}
		return a.RomFilename < b.RomFilename
	})

	n := 0
	for _, it := range r.Items {
		if it.IsProblem() {
			n++
		}
	}
	r.Problems = n
}

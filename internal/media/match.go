package media

import (
	"sort"
	"strings"
)

// FindMatches 按分层策略查找某 stem 在一个类别索引中的素材文件。
//
// 层级严格有序，命中即停：
// 1) 精确 stem 查找
// 2) 模糊开启时：宽松规范化 stem 查找
// 3) 模糊开启且仍为空时：线性扫描精确索引的键，收集所有以 stem 为前缀的
//    文件——用于 "game (variant).png" 这类带消歧后缀的命名
//
// 三层都落空即该类别对这个 ROM 记为 unmatched。
func FindMatches(stem, normStem string, idx Index, fuzzy bool) []string {
	if files := idx.Exact[stem]; len(files) > 0 {
		return files
	}
	if !fuzzy {
		return nil
	}

	if files := idx.Norm[normStem]; len(files) > 0 {
		return files
	}

	// map 遍历顺序不稳定：先收集命中的键再排序，保证复制顺序确定。
	keys := make([]string, 0, 4)
	for k := range idx.Exact {
		if strings.HasPrefix(k, stem) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		out = append(out, idx.Exact[k]...)
	}
	return out
}

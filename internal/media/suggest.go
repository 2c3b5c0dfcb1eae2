package media

import (
	"sort"

	"github.com/agext/levenshtein"
)

// suggestCutoff 是建议的最低相似度（0–1）。阈值定得高：建议只服务于
// 人工排查，宁缺毋滥。
const suggestCutoff = 0.80

// SuggestClosestStem 在候选 stem 里找与 target 最接近的一个。
// 纯诊断用途：返回值只用于打印提示，绝不参与匹配决策。
func SuggestClosestStem(target string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	// 候选先排序：相似度并列时取字典序靠前者，结果稳定。
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best := ""
	bestScore := 0.0
	for _, c := range sorted {
		score := levenshtein.Similarity(target, c, nil)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < suggestCutoff {
		return "", false
	}
	return best, true
}

package media

import (
	"sort"
	"strings"

	"github.com/John-Robertt/ESDS/internal/domain"
	"github.com/John-Robertt/ESDS/internal/gamelist"
)

// ParseCategoryFromMediaRef 尝试从 gamelist 字段里的素材引用路径推断类别。
// 常见形态：./downloaded_media/switch/covers/Celeste.png
//
// 三条规则按序尝试，先命中先返回：
// 1) 路径段包含 downloaded_media，其后依次是 <system> 与已知类别名
// 2) 路径段包含 <system>（大小写不敏感），其紧后一段是已知类别名
// 3) 任意一段本身就是已知类别名
func ParseCategoryFromMediaRef(text, system string) (domain.Category, bool) {
	t := strings.ReplaceAll(strings.TrimSpace(text), "\\", "/")
	if t == "" {
		return "", false
	}

	parts := make([]string, 0, 8)
	for _, p := range strings.Split(t, "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}

	sysLower := strings.ToLower(system)

	// 规则 1：.../downloaded_media/<system>/<category>/...
	for i, p := range parts {
		if p != "downloaded_media" {
			continue
		}
		if i+2 < len(parts) && strings.ToLower(parts[i+1]) == sysLower {
			return domain.ParseCategory(parts[i+2])
		}
		break
	}

	// 规则 2：.../<system>/<category>/...
	for i, p := range parts {
		if strings.ToLower(p) != sysLower {
			continue
		}
		if i+1 < len(parts) {
			return domain.ParseCategory(parts[i+1])
		}
		break
	}

	// 规则 3：任意段本身是已知类别名。
	for _, p := range parts {
		if c, ok := domain.ParseCategory(p); ok {
			return c, true
		}
	}

	return "", false
}

// ExpectedCategories 扫描条目的全部字段，推断该 ROM 实际引用了哪些类别。
//
// 返回值是“二值结果”：explicit=false 表示完全没有信号，调用方必须回退到
// 全量有效类别列表，而不能当作“期望零个类别”。只有同时位于 selected 中
// 的类别才会被保留（引用了未选类别属于静默丢弃，维持既有行为）。
func ExpectedCategories(g gamelist.Game, system string, selected []domain.Category) (cats []domain.Category, explicit bool) {
	set := make(map[domain.Category]struct{}, 4)

	for _, f := range g.Fields {
		txt := strings.TrimSpace(f.Text)
		if txt == "" {
			continue
		}
		if !looksLikeMediaRef(txt) {
			continue
		}

		c, ok := ParseCategoryFromMediaRef(txt, system)
		if !ok {
			continue
		}
		for _, s := range selected {
			if c == s {
				set[c] = struct{}{}
				break
			}
		}
	}

	if len(set) == 0 {
		return nil, false
	}
	cats = make([]domain.Category, 0, len(set))
	for c := range set {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats, true
}

// looksLikeMediaRef 是推断前的粗过滤：文本（斜杠规范化后）包含
// downloaded_media 标记，或包含任一已知类别名（大小写不敏感）。
func looksLikeMediaRef(txt string) bool {
	if strings.Contains(strings.ReplaceAll(txt, "\\", "/"), "downloaded_media") {
		return true
	}
	low := strings.ToLower(txt)
	for _, c := range domain.AllCategories() {
		if strings.Contains(low, string(c)) {
			return true
		}
	}
	return false
}

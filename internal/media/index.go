package media

import (
	"os"
	"path/filepath"
)

// Index 是单个 (system, category) 目录的只读快照。
//
// 约束：
// - 只扫一层（不递归），目录与非常规文件忽略
// - 同一 stem 允许多个文件（不同扩展名），全部保留为候选
// - Total 即使两个索引都为空也要保留：区分“有文件但没匹配”与
//   “目录缺失/为空”（后者触发下游的类别剪除）
type Index struct {
	Exact map[string][]string // 小写 stem -> 文件绝对路径
	Norm  map[string][]string // 宽松规范化 stem -> 文件绝对路径（仅模糊开启时构建）
	Total int
}

// BuildIndex 扫描类别目录并构建索引。目录不存在返回空索引且不报错。
func BuildIndex(categoryDir string, fuzzy bool) (Index, error) {
	idx := Index{
		Exact: make(map[string][]string),
		Norm:  make(map[string][]string),
	}

	entries, err := os.ReadDir(categoryDir)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return Index{}, err
	}

	for _, e := range entries {
		if e.IsDir() || !e.Type().IsRegular() {
			continue
		}
		idx.Total++

		abs := filepath.Join(categoryDir, e.Name())
		key := Stem(e.Name())
		idx.Exact[key] = append(idx.Exact[key], abs)

		if fuzzy {
			nkey := NormalizeStemLoose(key)
			idx.Norm[nkey] = append(idx.Norm[nkey], abs)
		}
	}

	return idx, nil
}

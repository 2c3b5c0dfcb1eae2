package media

import (
	"path"
	"regexp"
	"strings"
)

// NormalizeRomFilename 把 gamelist <path> 文本或磁盘文件名规范化为可比对的键：
// 去两端空白、反斜杠转正斜杠、去掉开头的 "./"、只留最后一段、小写。
// 两侧（gamelist 声明与磁盘实际）都过同一函数，目录前缀与大小写差异即被抹平。
func NormalizeRomFilename(pathText string) string {
	p := strings.ReplaceAll(strings.TrimSpace(pathText), "\\", "/")
	p = strings.TrimPrefix(p, "./")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return strings.ToLower(p)
}

// Stem 返回文件名去掉最后一个扩展名后的部分（小写）。
func Stem(filename string) string {
	filename = strings.ToLower(filename)
	return strings.TrimSuffix(filename, path.Ext(filename))
}

var (
	nonAlnumRE = regexp.MustCompile(`[^a-z0-9\s]+`)
	spaceRE    = regexp.MustCompile(`\s+`)
)

// NormalizeStemLoose 是模糊比对用的宽松规范化：
// 小写、连续非字母数字折叠为单个空格、压缩空白、去两端。
// 必须幂等：NormalizeStemLoose(NormalizeStemLoose(s)) == NormalizeStemLoose(s)。
func NormalizeStemLoose(stem string) string {
	s := strings.ToLower(stem)
	s = nonAlnumRE.ReplaceAllString(s, " ")
	s = spaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

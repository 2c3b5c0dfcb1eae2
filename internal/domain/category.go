package domain

import "strings"

// Category 是一种媒体素材类别（与 downloaded_media/<system>/ 下的目录名一一对应）。
//
// 约束：类别集合是封闭枚举；任何不在枚举内的名字都视为配置错误。
type Category string

const (
	Cat3DBoxes       Category = "3d-boxes"
	CatBackCovers    Category = "back-covers"
	CatCovers        Category = "covers"
	CatCustom        Category = "custom"
	CatFanArt        Category = "fan-art"
	CatManuals       Category = "manuals"
	CatMarquees      Category = "marquees"
	CatMixImages     Category = "mix-images"
	CatPhysicalMedia Category = "physical-media"
	CatScreenshots   Category = "screenshots"
	CatTitleScreens  Category = "title-screens"
	CatVideos        Category = "videos"
)

// AllCategories 返回全部类别（固定顺序，便于稳定输出）。
func AllCategories() []Category {
	return []Category{
		Cat3DBoxes, CatBackCovers, CatCovers, CatCustom,
		CatFanArt, CatManuals, CatMarquees, CatMixImages,
		CatPhysicalMedia, CatScreenshots, CatTitleScreens, CatVideos,
	}
}

// ParseCategory 把用户/路径中出现的类别名解析为枚举值（大小写不敏感）。
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range AllCategories() {
		if c == k {
			return k, true
		}
	}
	return "", false
}

// IsCategory 判断 s 是否是已知类别名（大小写不敏感）。
func IsCategory(s string) bool {
	_, ok := ParseCategory(s)
	return ok
}

// CategoryNames 把类别列表转成字符串列表（输出/拼接用）。
func CategoryNames(cats []Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	return out
}

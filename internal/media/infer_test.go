package media

import (
	"testing"

	"github.com/John-Robertt/ESDS/internal/domain"
	"github.com/John-Robertt/ESDS/internal/gamelist"
)

func TestParseCategoryFromMediaRef(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		system string
		want   domain.Category
		ok     bool
	}{
		{"规则1 downloaded_media", "./downloaded_media/switch/covers/Celeste.png", "switch", domain.CatCovers, true},
		{"规则1 反斜杠", `.\downloaded_media\Switch\screenshots\a.png`, "switch", domain.CatScreenshots, true},
		{"规则2 system 紧跟类别", "/mnt/media/switch/marquees/x.png", "switch", domain.CatMarquees, true},
		{"规则3 任意段是类别", "/somewhere/videos/x.mp4", "switch", domain.CatVideos, true},
		{"未知类别", "./downloaded_media/switch/posters/x.png", "switch", "", false},
		{"空文本", "   ", "switch", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCategoryFromMediaRef(tt.text, tt.system)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("得到 (%q, %v)，期望 (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExpectedCategories(t *testing.T) {
	g := gamelist.Game{Fields: []gamelist.Field{
		{Name: "path", Text: "./Celeste.xci"},
		{Name: "name", Text: "Celeste"},
		{Name: "image", Text: "./downloaded_media/switch/screenshots/Celeste.png"},
		{Name: "marquee", Text: "./downloaded_media/switch/marquees/Celeste.png"},
	}}

	selected := []domain.Category{domain.CatScreenshots, domain.CatMarquees, domain.CatCovers}
	cats, explicit := ExpectedCategories(g, "switch", selected)
	if !explicit {
		t.Fatalf("有素材引用时应返回显式信号")
	}
	if len(cats) != 2 || cats[0] != domain.CatMarquees || cats[1] != domain.CatScreenshots {
		t.Fatalf("期望 [marquees screenshots]，实际 %v", cats)
	}

	// 引用的类别不在选中集合内：静默丢弃；全部丢弃则视为无信号。
	cats, explicit = ExpectedCategories(g, "switch", []domain.Category{domain.CatCovers})
	if explicit || len(cats) != 0 {
		t.Fatalf("全部被丢弃时应视为无信号，实际 (%v, %v)", cats, explicit)
	}

	// 完全没有素材引用字段。
	plain := gamelist.Game{Fields: []gamelist.Field{{Name: "path", Text: "./x.xci"}}}
	if _, explicit := ExpectedCategories(plain, "switch", selected); explicit {
		t.Fatalf("无引用时不应有显式信号")
	}
}

package domain

import "testing"

func TestAuditReport_Finalize_SortAndProblems(t *testing.T) {
	r := AuditReport{
		SystemsAudited: 2,
		Items: []AuditItem{
			{System: "switch", RomFilename: "zelda.nsp", InMasterGamelist: false, Note: "x"},
			{System: "psx", RomFilename: "b.chd", InMasterGamelist: true, MissingCategories: []Category{CatCovers}},
			{System: "psx", RomFilename: "a.chd", InMasterGamelist: true}, // 不构成问题
		},
	}

	r.Finalize()

	order := []string{"a.chd", "b.chd", "zelda.nsp"}
	for i, want := range order {
		if r.Items[i].RomFilename != want {
			t.Fatalf("第 %d 条期望 %q，实际 %q", i, want, r.Items[i].RomFilename)
		}
	}
	if r.Problems != 2 {
		t.Fatalf("期望 2 个问题条目，实际 %d", r.Problems)
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory(" Covers "); !ok || c != CatCovers {
		t.Fatalf("期望解析为 covers，实际 %q ok=%v", c, ok)
	}
	if _, ok := ParseCategory("posters"); ok {
		t.Fatalf("未知类别不应解析成功")
	}
}

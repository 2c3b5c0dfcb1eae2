package run

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/John-Robertt/ESDS/internal/domain"
	"github.com/John-Robertt/ESDS/internal/infra/fsx"
)

func discard() *log.Logger { return log.New(io.Discard) }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}

// makeRoots 构造最小的 master/SD 目录骨架。
func makeRoots(t *testing.T) (master, sd string) {
	t.Helper()
	root := t.TempDir()
	master = filepath.Join(root, "master")
	sd = filepath.Join(root, "sd")
	for _, d := range []string{filepath.Join(sd, "ROMs"), filepath.Join(sd, "ES-DE")} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("创建目录失败：%v", err)
		}
	}
	return master, sd
}

const celesteGamelist = `<?xml version="1.0"?>
<gameList>
  <provider>
    <System>switch</System>
  </provider>
  <game>
    <path>./Celeste.xci</path>
    <name>Celeste</name>
  </game>
  <game>
    <path>./NotOnSD.xci</path>
    <name>Not On SD</name>
  </game>
</gameList>
`

func TestSync_KeepCopyAndWrite(t *testing.T) {
	master, sd := makeRoots(t)
	writeFile(t, filepath.Join(sd, "ROMs", "switch", "celeste.xci"), "rom")
	writeFile(t, filepath.Join(master, "gamelists", "switch", "gamelist.xml"), celesteGamelist)
	writeFile(t, filepath.Join(master, "downloaded_media", "switch", "covers", "Celeste.png"), "img")

	opts := Options{
		MasterRoot: master,
		SDRoot:     sd,
		Systems:    []string{"switch"},
		Categories: []domain.Category{domain.CatCovers},
	}
	stats := Sync(opts, fsx.Ops{Log: discard()}, discard())

	if stats.GamesKept != 1 || stats.GamesTotalInMaster != 2 {
		t.Fatalf("期望 kept=1 total=2，实际 %+v", stats)
	}
	if stats.MediaFilesCopied != 1 || stats.MediaCategoriesMissing != 0 {
		t.Fatalf("期望复制 1 个素材且无缺失，实际 %+v", stats)
	}
	if stats.GamelistsWritten != 1 || stats.SystemsProcessed != 1 {
		t.Fatalf("期望写出 1 份 gamelist，实际 %+v", stats)
	}

	// 素材落在目标 ES-DE 树下。
	if _, err := os.Stat(filepath.Join(sd, "ES-DE", "downloaded_media", "switch", "covers", "Celeste.png")); err != nil {
		t.Fatalf("素材未复制到目标：%v", err)
	}

	// 输出 gamelist 只包含 SD 上存在的条目（全程不变量）。
	b, err := os.ReadFile(filepath.Join(sd, "ES-DE", "gamelists", "switch", "gamelist.xml"))
	if err != nil {
		t.Fatalf("读取输出 gamelist 失败：%v", err)
	}
	s := string(b)
	if !strings.Contains(s, "Celeste.xci") || strings.Contains(s, "NotOnSD.xci") {
		t.Fatalf("输出条目集合不符：%s", s)
	}
	if !strings.Contains(s, "<provider>") {
		t.Fatalf("provider 节点应被保留：%s", s)
	}
}

func TestSync_EmptyCategoryPruned(t *testing.T) {
	master, sd := makeRoots(t)
	writeFile(t, filepath.Join(sd, "ROMs", "switch", "celeste.xci"), "rom")
	writeFile(t, filepath.Join(master, "gamelists", "switch", "gamelist.xml"), celesteGamelist)
	// covers 目录存在但为空。
	if err := os.MkdirAll(filepath.Join(master, "downloaded_media", "switch", "covers"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	opts := Options{
		MasterRoot: master,
		SDRoot:     sd,
		Systems:    []string{"switch"},
		Categories: []domain.Category{domain.CatCovers},
	}
	stats := Sync(opts, fsx.Ops{Log: discard()}, discard())

	if stats.CategoriesIgnoredEmptyOrMissing != 1 {
		t.Fatalf("空类别应计入 ignored=1，实际 %+v", stats)
	}
	if stats.MediaCategoriesAttempted != 0 || stats.MediaCategoriesMissing != 0 {
		t.Fatalf("被剪除的类别不应参与期望/缺失统计：%+v", stats)
	}
	if stats.GamesKept != 1 {
		t.Fatalf("条目保留不受类别剪除影响：%+v", stats)
	}
}

func TestSync_DryRunIdenticalStats(t *testing.T) {
	build := func(t *testing.T) (Options, string) {
		master, sd := makeRoots(t)
		writeFile(t, filepath.Join(sd, "ROMs", "switch", "celeste.xci"), "rom")
		writeFile(t, filepath.Join(master, "gamelists", "switch", "gamelist.xml"), celesteGamelist)
		writeFile(t, filepath.Join(master, "downloaded_media", "switch", "covers", "Celeste.png"), "img")
		writeFile(t, filepath.Join(master, "downloaded_media", "switch", "marquees", "Other.png"), "img")
		return Options{
			MasterRoot: master,
			SDRoot:     sd,
			Systems:    []string{"switch"},
			Categories: []domain.Category{domain.CatCovers, domain.CatMarquees, domain.CatVideos},
			Fuzzy:      true,
		}, sd
	}

	dryOpts, drySD := build(t)
	dry := Sync(dryOpts, fsx.Ops{DryRun: true, Log: discard()}, discard())

	realOpts, _ := build(t)
	wet := Sync(realOpts, fsx.Ops{Log: discard()}, discard())

	if dry != wet {
		t.Fatalf("演练与真实统计必须一致：\n dry=%+v\nreal=%+v", dry, wet)
	}

	// 演练不得在 ES-DE 下产生任何内容。
	entries, err := os.ReadDir(filepath.Join(drySD, "ES-DE"))
	if err != nil {
		t.Fatalf("读取目录失败：%v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("演练模式不应落盘，目录内容：%v", entries)
	}
}

func TestSync_MissingGamelistSkipsSystem(t *testing.T) {
	master, sd := makeRoots(t)
	writeFile(t, filepath.Join(sd, "ROMs", "switch", "celeste.xci"), "rom")

	opts := Options{
		MasterRoot: master,
		SDRoot:     sd,
		Systems:    []string{"switch"},
		Categories: []domain.Category{domain.CatCovers},
	}
	stats := Sync(opts, fsx.Ops{Log: discard()}, discard())

	if stats.GamelistsWritten != 0 || stats.GamesKept != 0 {
		t.Fatalf("缺主 gamelist 的系统应整体跳过：%+v", stats)
	}
}

func TestSync_BackupBeforeOverwrite(t *testing.T) {
	master, sd := makeRoots(t)
	writeFile(t, filepath.Join(sd, "ROMs", "switch", "celeste.xci"), "rom")
	writeFile(t, filepath.Join(master, "gamelists", "switch", "gamelist.xml"), celesteGamelist)
	writeFile(t, filepath.Join(master, "downloaded_media", "switch", "covers", "Celeste.png"), "img")
	// 目标已有旧 gamelist。
	outDir := filepath.Join(sd, "ES-DE", "gamelists", "switch")
	writeFile(t, filepath.Join(outDir, "gamelist.xml"), "<gameList/>")

	opts := Options{
		MasterRoot: master,
		SDRoot:     sd,
		Systems:    []string{"switch"},
		Categories: []domain.Category{domain.CatCovers},
		Backup:     true,
	}
	Sync(opts, fsx.Ops{Log: discard()}, discard())

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("读取目录失败：%v", err)
	}
	backups := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "gamelist.xml.bak-") {
			backups++
		}
	}
	if backups != 1 {
		t.Fatalf("期望 1 份备份，目录内容：%v", entries)
	}
}

func TestAudit_MissingFromMaster(t *testing.T) {
	master, sd := makeRoots(t)
	writeFile(t, filepath.Join(sd, "ROMs", "switch", "zelda.nsp"), "rom")
	writeFile(t, filepath.Join(master, "gamelists", "switch", "gamelist.xml"), celesteGamelist)

	opts := Options{
		MasterRoot: master,
		SDRoot:     sd,
		Systems:    []string{"switch"},
		Categories: []domain.Category{domain.CatCovers},
	}
	report := Audit(opts, discard())

	if report.Problems != 1 || len(report.Items) != 1 {
		t.Fatalf("期望 1 个问题条目，实际 %+v", report)
	}
	it := report.Items[0]
	if it.InMasterGamelist || it.RomFilename != "zelda.nsp" {
		t.Fatalf("条目内容不符：%+v", it)
	}
}

func TestAudit_FuzzyNormalizedMatch(t *testing.T) {
	master, sd := makeRoots(t)
	writeFile(t, filepath.Join(sd, "ROMs", "nes", "super-mario_bros.nes"), "rom")
	writeFile(t, filepath.Join(master, "gamelists", "nes", "gamelist.xml"), `<?xml version="1.0"?>
<gameList>
  <game>
    <path>./super-mario_bros.nes</path>
    <name>Super Mario Bros</name>
  </game>
</gameList>
`)
	writeFile(t, filepath.Join(master, "downloaded_media", "nes", "covers", "Super Mario Bros.png"), "img")

	opts := Options{
		MasterRoot: master,
		SDRoot:     sd,
		Systems:    []string{"nes"},
		Categories: []domain.Category{domain.CatCovers},
		Fuzzy:      true,
	}
	report := Audit(opts, discard())
	if report.Problems != 0 {
		t.Fatalf("宽松规范化应命中，不期望问题条目：%+v", report.Items)
	}

	// 模糊关闭：同样输入应报缺失。
	opts.Fuzzy = false
	report = Audit(opts, discard())
	if report.Problems != 1 {
		t.Fatalf("模糊关闭时应报缺失：%+v", report.Items)
	}
}

func TestAudit_MissingGamelistFlagsEveryRom(t *testing.T) {
	master, sd := makeRoots(t)
	writeFile(t, filepath.Join(sd, "ROMs", "psx", "a.chd"), "rom")
	writeFile(t, filepath.Join(sd, "ROMs", "psx", "b.chd"), "rom")

	opts := Options{
		MasterRoot: master,
		SDRoot:     sd,
		Systems:    []string{"psx"},
		Categories: []domain.Category{domain.CatCovers},
	}
	report := Audit(opts, discard())

	if report.Problems != 2 {
		t.Fatalf("缺 gamelist 时每个 ROM 都应计为问题：%+v", report)
	}
	for _, it := range report.Items {
		if it.InMasterGamelist || it.Note != "missing master gamelist.xml" {
			t.Fatalf("条目内容不符：%+v", it)
		}
	}
}

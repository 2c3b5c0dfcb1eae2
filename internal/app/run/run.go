package run

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/John-Robertt/ESDS/internal/domain"
	"github.com/John-Robertt/ESDS/internal/gamelist"
	"github.com/John-Robertt/ESDS/internal/infra/fsx"
	"github.com/John-Robertt/ESDS/internal/media"
	"github.com/John-Robertt/ESDS/internal/scan"
)

// Options 是一次运行（sync 或 audit）的全部输入。
type Options struct {
	MasterRoot string // NAS 主库根目录
	SDRoot     string // SD 卡根目录

	Systems    []string
	Categories []domain.Category

	Fuzzy   bool
	Backup  bool // sync：写 gamelist 前备份现有文件
	Report  bool // sync：逐 ROM 打印 matched/missed
	Suggest bool // audit：为缺失素材打印最近名建议
}

// Sync 依次处理每个系统：过滤主 gamelist、复制素材、写出子集 gamelist。
//
// 错误处理契约：任何单系统的故障（缺 gamelist、解析失败、IO 失败）都
// 降级为 WARN 并跳过该系统，绝不中断整个批次。
func Sync(opts Options, ops fsx.Ops, logger *log.Logger) domain.RunStats {
	stats := domain.RunStats{SystemsSeen: len(opts.Systems)}

	for _, system := range opts.Systems {
		if err := syncSystem(system, opts, ops, logger, &stats); err != nil {
			logger.Warn("系统处理失败，跳过", "system", system, "err", err)
		}
	}
	return stats
}

func syncSystem(system string, opts Options, ops fsx.Ops, logger *log.Logger, stats *domain.RunStats) error {
	sdRomDir := filepath.Join(opts.SDRoot, "ROMs", system)
	outGamelistDir := filepath.Join(opts.SDRoot, "ES-DE", "gamelists", system)
	outMediaRoot := filepath.Join(opts.SDRoot, "ES-DE", "downloaded_media", system)

	masterGamelist := filepath.Join(opts.MasterRoot, "gamelists", system, "gamelist.xml")
	masterMediaRoot := filepath.Join(opts.MasterRoot, "downloaded_media", system)

	romNames, err := scan.RomFilenames(sdRomDir)
	if err != nil {
		return err
	}
	if len(romNames) == 0 {
		logger.Info("系统无 ROM，跳过", "system", system, "dir", sdRomDir)
		return nil
	}
	romSet := make(map[string]struct{}, len(romNames))
	for _, n := range romNames {
		romSet[n] = struct{}{}
	}

	doc, err := gamelist.ParseFile(masterGamelist)
	if err != nil {
		logger.Warn("主 gamelist 缺失或无法解析，跳过系统", "system", system, "path", masterGamelist, "err", err)
		return nil
	}

	idxs, err := buildCategoryIndexes(masterMediaRoot, opts.Categories, opts.Fuzzy)
	if err != nil {
		return err
	}
	stats.CategoriesIgnoredEmptyOrMissing += idxs.ignored

	out := &gamelist.Document{Provider: doc.Provider, Games: make([]gamelist.Game, 0, len(doc.Games))}
	stats.GamesTotalInMaster += len(doc.Games)

	kept := 0
	for i := range doc.Games {
		g := doc.Games[i]
		p := g.Path()
		if strings.TrimSpace(p) == "" {
			continue
		}

		romFilename := media.NormalizeRomFilename(p)
		if _, onSD := romSet[romFilename]; !onSD {
			// 主库里有、SD 上没有：静默丢弃（全程不变量由此保证）。
			continue
		}

		kept++
		stats.GamesKept++

		m := reconcileGame(g, system, romFilename, idxs, opts.Fuzzy)

		stats.MediaCategoriesAttempted += len(m.Expected)
		for _, cat := range m.Matched {
			for _, src := range m.files[cat] {
				dst := filepath.Join(outMediaRoot, string(cat), filepath.Base(src))
				res, err := ops.CopyFile(src, dst)
				if err != nil {
					return err
				}
				if res == fsx.Copied {
					stats.MediaFilesCopied++
				} else {
					stats.MediaFilesSkipped++
				}
			}
		}
		stats.MediaCategoriesMissing += len(m.Unmatched)

		out.Games = append(out.Games, g)

		if opts.Report {
			mode := "heuristic"
			if m.ExpectedFromXML {
				mode = "xml"
			}
			logger.Info("逐 ROM 报告",
				"system", system,
				"rom", romFilename,
				"expected", mode,
				"matched", joinCats(m.Matched),
				"missed", joinCats(m.Unmatched),
			)
		}
	}

	if kept == 0 {
		logger.Info("没有匹配的游戏，跳过 gamelist 写入", "system", system)
		return nil
	}

	if opts.Backup {
		if err := ops.BackupFile(filepath.Join(outGamelistDir, "gamelist.xml")); err != nil {
			return err
		}
	}

	b, err := out.Encode()
	if err != nil {
		return err
	}
	if err := ops.WriteFile(outGamelistDir, "gamelist.xml", b); err != nil {
		return err
	}
	stats.GamelistsWritten++
	stats.SystemsProcessed++

	logger.Info("系统完成", "system", system, "kept", kept)
	return nil
}

// Audit 只读比对：SD 上的 ROM 对照主库的 gamelist 与素材缓存，产出问题
// 清单。不复制、不写 gamelist。
func Audit(opts Options, logger *log.Logger) domain.AuditReport {
	report := domain.AuditReport{SystemsAudited: len(opts.Systems)}

	for _, system := range opts.Systems {
		if err := auditSystem(system, opts, logger, &report); err != nil {
			logger.Warn("系统审计失败，跳过", "system", system, "err", err)
		}
	}

	report.Finalize()
	return report
}

func auditSystem(system string, opts Options, logger *log.Logger, report *domain.AuditReport) error {
	sdRomDir := filepath.Join(opts.SDRoot, "ROMs", system)
	masterGamelist := filepath.Join(opts.MasterRoot, "gamelists", system, "gamelist.xml")
	masterMediaRoot := filepath.Join(opts.MasterRoot, "downloaded_media", system)

	romNames, err := scan.RomFilenames(sdRomDir)
	if err != nil {
		return err
	}
	if len(romNames) == 0 {
		return nil
	}

	logger.Info("审计开始", "system", system, "sd_roms", len(romNames))

	doc, err := gamelist.ParseFile(masterGamelist)
	if err != nil {
		// gamelist 整体缺失/损坏：该系统每个 ROM 都记为缺元数据。
		logger.Warn("主 gamelist 缺失或无法解析", "system", system, "path", masterGamelist, "err", err)
		for _, rom := range romNames {
			report.Items = append(report.Items, domain.AuditItem{
				System:           system,
				RomFilename:      rom,
				InMasterGamelist: false,
				Note:             "missing master gamelist.xml",
			})
		}
		logger.Info("缺元数据", "system", system, "count", len(romNames))
		return nil
	}

	// ROM 文件名键 -> 条目。
	masterMap := make(map[string]gamelist.Game, len(doc.Games))
	for i := range doc.Games {
		g := doc.Games[i]
		p := g.Path()
		if strings.TrimSpace(p) == "" {
			continue
		}
		masterMap[media.NormalizeRomFilename(p)] = g
	}

	idxs, err := buildCategoryIndexes(masterMediaRoot, opts.Categories, opts.Fuzzy)
	if err != nil {
		return err
	}

	logger.Info("类别概况",
		"system", system,
		"selected", joinCats(opts.Categories),
		"effective", joinCats(idxs.effective),
		"ignored", idxs.ignored,
	)

	presentInMaster := 0
	missingInMaster := 0
	missingMedia := 0

	for _, rom := range romNames {
		g, ok := masterMap[rom]
		if !ok {
			missingInMaster++
			report.Items = append(report.Items, domain.AuditItem{
				System:           system,
				RomFilename:      rom,
				InMasterGamelist: false,
				Note:             "ROM not found in master gamelist.xml",
			})
			continue
		}
		presentInMaster++

		m := reconcileGame(g, system, rom, idxs, opts.Fuzzy)
		if len(m.Unmatched) == 0 {
			continue
		}

		missingMedia++
		report.Items = append(report.Items, domain.AuditItem{
			System:            system,
			RomFilename:       rom,
			InMasterGamelist:  true,
			MissingCategories: append([]domain.Category(nil), m.Unmatched...),
			Note:              "missing media categories in master cache",
		})

		if opts.Suggest {
			stem := media.Stem(rom)
			for _, cat := range m.Unmatched {
				idx := idxs.byCat[cat]
				keys := make([]string, 0, len(idx.Exact))
				for k := range idx.Exact {
					keys = append(keys, k)
				}
				if s, ok := media.SuggestClosestStem(stem, keys); ok {
					logger.Info("最近名建议", "system", system, "rom", rom, "category", cat, "closest", s)
				}
			}
		}
	}

	logger.Info("审计结束",
		"system", system,
		"present_in_master", presentInMaster,
		"missing_in_master", missingInMaster,
		"missing_media", missingMedia,
	)
	return nil
}

// categoryIndexes 聚合单系统的全部类别索引。
// effective 只包含在 NAS 上确有素材文件的类别（空/缺目录整体剪除）。
type categoryIndexes struct {
	byCat     map[domain.Category]media.Index
	effective []domain.Category
	ignored   int
}

func buildCategoryIndexes(mediaRoot string, cats []domain.Category, fuzzy bool) (categoryIndexes, error) {
	out := categoryIndexes{byCat: make(map[domain.Category]media.Index, len(cats))}
	for _, cat := range cats {
		idx, err := media.BuildIndex(filepath.Join(mediaRoot, string(cat)), fuzzy)
		if err != nil {
			return categoryIndexes{}, err
		}
		out.byCat[cat] = idx
		if idx.Total > 0 {
			out.effective = append(out.effective, cat)
		} else {
			out.ignored++
		}
	}
	return out, nil
}

// romMatch 在 domain.RomMatch 之上附带每类别命中的文件列表（仅 sync 用）。
type romMatch struct {
	domain.RomMatch
	files map[domain.Category][]string
}

// reconcileGame 计算单条目的期望/命中/缺失类别。
// 不变量：Matched ∪ Unmatched == Expected 且两者不相交。
func reconcileGame(g gamelist.Game, system, romFilename string, idxs categoryIndexes, fuzzy bool) romMatch {
	stem := media.Stem(romFilename)
	normStem := media.NormalizeStemLoose(stem)

	// 推断为空是“无信号”，回退到全量有效类别，而不是期望零个类别。
	expected, fromXML := media.ExpectedCategories(g, system, idxs.effective)
	if !fromXML {
		expected = append([]domain.Category(nil), idxs.effective...)
	}

	m := romMatch{
		RomMatch: domain.RomMatch{
			RomFilename:     romFilename,
			InMaster:        true,
			ExpectedFromXML: fromXML,
			Expected:        expected,
		},
		files: make(map[domain.Category][]string, len(expected)),
	}

	for _, cat := range expected {
		matches := media.FindMatches(stem, normStem, idxs.byCat[cat], fuzzy)
		if len(matches) > 0 {
			m.Matched = append(m.Matched, cat)
			m.files[cat] = matches
		} else {
			m.Unmatched = append(m.Unmatched, cat)
		}
	}
	return m
}

func joinCats(cats []domain.Category) string {
	if len(cats) == 0 {
		return "(none)"
	}
	names := domain.CategoryNames(cats)
	sort.Strings(names)
	return strings.Join(names, ", ")
}

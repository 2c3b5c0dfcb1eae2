package domain

// RomMatch 是单个 SD ROM 在某系统下的比对结果。
//
// 不变量（实现必须遵守）：
// - Matched ∪ Unmatched == Expected
// - Matched ∩ Unmatched == ∅
type RomMatch struct {
	RomFilename string // 规范化后的文件名（小写、仅文件名）

	InMaster bool // 是否出现在主 gamelist 中

	// ExpectedFromXML 表示期望类别来自 gamelist 字段推断（而非整组兜底）。
	ExpectedFromXML bool

	Expected  []Category
	Matched   []Category
	Unmatched []Category
}

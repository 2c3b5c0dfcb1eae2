package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/John-Robertt/ESDS/internal/domain"
)

const (
	// ErrCodeInvalidCategory 表示 --media 或 profile 里出现未知类别名。
	ErrCodeInvalidCategory = "invalid_category"
	// ErrCodeProfilesInvalid 表示 profiles 文件无法读取/解析。
	ErrCodeProfilesInvalid = "profiles_invalid"
	// ErrCodeProfileNotFound 表示显式指定的 profile 在文件中不存在。
	ErrCodeProfileNotFound = "profile_not_found"
)

// DefaultProfile 是未显式选择时尝试的 profile 名。
const DefaultProfile = "no_videos"

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeInvalidCategory:
		return fmt.Sprintf("%s：%v；合法类别：%s", e.Code, e.Err,
			strings.Join(domain.CategoryNames(domain.AllCategories()), ", "))
	case ErrCodeProfilesInvalid:
		return fmt.Sprintf("%s：profiles 文件 %q 无效：%v", e.Code, e.Path, e.Err)
	case ErrCodeProfileNotFound:
		return fmt.Sprintf("%s：profiles 文件 %q 中没有 %v", e.Code, e.Path, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ProfilesFile 对应 profiles.toml 的解析结构：
//
//	[profiles]
//	no_videos = ["covers", "screenshots"]
type ProfilesFile struct {
	Profiles map[string][]string `toml:"profiles"`
}

// Selection 是类别选择的全部输入（来自 CLI）。
type Selection struct {
	Media        string // --media：逗号分隔的类别列表（优先级最高）
	Profile      string // --profile：profile 名
	ProfilesPath string // --profiles：profiles.toml 路径
}

// ResolveCategories 把选择输入解析为最终类别列表。
//
// 优先级（固定）：
// 1) --media 非空：直接使用（逗号分隔）
// 2) --profile 非空：从 profiles 文件取；不存在即致命错误
// 3) 都未给：文件里有 no_videos 就用它；否则取全部类别去掉 videos
//
// 任何位置出现未知类别名都是致命错误（不做部分处理）。
func ResolveCategories(sel Selection) ([]domain.Category, error) {
	if names := splitList(sel.Media); len(names) > 0 {
		return parseCategories(names)
	}

	profiles, err := readProfiles(sel.ProfilesPath)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(sel.Profile)
	if name != "" {
		names, ok := profiles[name]
		if !ok {
			return nil, &Error{Code: ErrCodeProfileNotFound, Path: sel.ProfilesPath, Err: fmt.Errorf("profile %q", name)}
		}
		return parseCategories(names)
	}

	if names, ok := profiles[DefaultProfile]; ok {
		return parseCategories(names)
	}

	// 内置默认：全部类别去掉 videos。
	out := make([]domain.Category, 0, 11)
	for _, c := range domain.AllCategories() {
		if c != domain.CatVideos {
			out = append(out, c)
		}
	}
	return out, nil
}

// ResolveSystems 解析 --systems；为空则返回 nil（上层改用 SD 自动发现）。
func ResolveSystems(systemsFlag string) []string {
	systems := splitList(systemsFlag)
	if len(systems) == 0 {
		return nil
	}
	sort.Strings(systems)
	return systems
}

// readProfiles 读取 profiles 文件。文件不存在不算错误（返回空表）。
func readProfiles(path string) (map[string][]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &Error{Code: ErrCodeProfilesInvalid, Path: path, Err: err}
	}

	var pf ProfilesFile
	if err := toml.Unmarshal(b, &pf); err != nil {
		return nil, &Error{Code: ErrCodeProfilesInvalid, Path: path, Err: err}
	}
	return pf.Profiles, nil
}

func parseCategories(names []string) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(names))
	var invalid []string
	for _, n := range names {
		c, ok := domain.ParseCategory(n)
		if !ok {
			invalid = append(invalid, n)
			continue
		}
		out = append(out, c)
	}
	if len(invalid) > 0 {
		return nil, &Error{Code: ErrCodeInvalidCategory, Err: fmt.Errorf("未知类别：%v", invalid)}
	}
	return out, nil
}

func splitList(s string) []string {
	out := make([]string, 0, 4)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

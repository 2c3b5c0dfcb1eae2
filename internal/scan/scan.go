package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// RomFilenames 递归扫描某系统的 ROM 目录，返回去重、排序后的文件名列表（小写）。
//
// 注意：扫描阶段只看目录项，不读文件内容；目录不存在时返回空列表且不报错
// （上层把“零 ROM”当作跳过该系统的信号）。
func RomFilenames(romDir string) ([]string, error) {
	if _, err := os.Stat(romDir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	seen := make(map[string]struct{}, 128)
	err := filepath.WalkDir(romDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		seen[strings.ToLower(d.Name())] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	// 强制稳定输出，避免不同平台/文件系统行为差异带来的不确定性。
	sort.Strings(out)
	return out, nil
}

// ListSystems 枚举 SD:\ROMs\ 下的系统目录名（字典序）。
func ListSystems(sdRoot string) ([]string, error) {
	romsRoot := filepath.Join(sdRoot, "ROMs")
	entries, err := os.ReadDir(romsRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	systems := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			systems = append(systems, e.Name())
		}
	}
	sort.Strings(systems)
	return systems, nil
}

// ValidateSDRoot 校验 SD 根目录的必备结构（ROMs/ 与 ES-DE/）。
// 缺失即整次运行的致命错误。
func ValidateSDRoot(sdRoot string) error {
	if _, err := os.Stat(filepath.Join(sdRoot, "ROMs")); err != nil {
		return fmt.Errorf("SD 根目录缺少 ROMs 目录：%s", sdRoot)
	}
	if _, err := os.Stat(filepath.Join(sdRoot, "ES-DE")); err != nil {
		return fmt.Errorf("SD 根目录缺少 ES-DE 目录：%s", sdRoot)
	}
	return nil
}

// NormalizeSDRoot 把 Windows 下裸盘符（如 "F:"）规范为 "F:\"。
// 其他平台/形态原样返回（仅做 TrimSpace）。
func NormalizeSDRoot(sdRoot string) string {
	sdRoot = strings.TrimSpace(sdRoot)
	if runtime.GOOS == "windows" && len(sdRoot) == 2 && sdRoot[1] == ':' {
		return sdRoot + string(os.PathSeparator)
	}
	return sdRoot
}

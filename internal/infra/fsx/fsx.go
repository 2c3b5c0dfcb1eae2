package fsx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// CopyResult 描述一次复制的结果（供统计用）。
type CopyResult string

const (
	Copied  CopyResult = "copied"
	Skipped CopyResult = "skipped"
)

// Ops 是全部落盘操作的入口。
//
// 约束：
// - DryRun=true 时每个写操作都替换为一行描述性日志，决策逻辑与统计
//   必须和真实路径逐字节一致（这是不碰存储就能全量演练引擎的机制）
// - 同一次运行里只存在一个 Ops，模式中途不得切换
type Ops struct {
	DryRun bool
	Log    *log.Logger
}

// EnsureDir 幂等创建目录。
func (o Ops) EnsureDir(dir string) error {
	if o.DryRun {
		o.Log.Debug("［演练］创建目录", "dir", dir)
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// CopyFile 复制 src 到 dst，带“同字节数即跳过”启发式。
//
// 注意：该启发式只比较字节数，不做校验和——对素材同步场景足够便宜且
// 够用；字节数相同但内容不同的文件会被误判为已同步。stat 失败不算命中
// （按“不是跳过”处理，继续复制）。复制保留修改时间。
func (o Ops) CopyFile(src, dst string) (CopyResult, error) {
	if err := o.EnsureDir(filepath.Dir(dst)); err != nil {
		return "", err
	}

	if di, err := os.Stat(dst); err == nil {
		if si, err := os.Stat(src); err == nil && di.Size() == si.Size() {
			return Skipped, nil
		}
	}

	if o.DryRun {
		o.Log.Info("［演练］复制", "src", src, "dst", dst)
		return Copied, nil
	}

	if err := copyContents(src, dst); err != nil {
		return "", err
	}
	return Copied, nil
}

// BackupFile 把现有文件复制为 <name>.bak-YYYYmmdd-HHMMSS。
// 文件不存在时是 no-op。
func (o Ops) BackupFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	stamp := time.Now().Format("20060102-150405")
	backup := path + ".bak-" + stamp
	if o.DryRun {
		o.Log.Info("［演练］备份", "src", path, "dst", backup)
		return nil
	}
	return copyContents(path, backup)
}

// WriteFile 在 dir 下原子写入 name（临时文件 + rename，覆盖同名文件）。
func (o Ops) WriteFile(dir, name string, data []byte) error {
	if o.DryRun {
		o.Log.Info("［演练］写入", "path", filepath.Join(dir, name), "bytes", len(data))
		return nil
	}
	return WriteFileAtomic(dir, name, data)
}

// copyContents 复制文件内容并尽量保留修改时间。
// mtime 恢复失败不视为复制失败（内容已经落盘）。
func copyContents(src, dst string) error {
	si, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("复制 %q -> %q 失败：%w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	_ = os.Chtimes(dst, si.ModTime(), si.ModTime())
	return nil
}

// WriteFileAtomic 在 dir 下原子写入 name（临时文件 + rename）。
//
// - 临时文件必须与目标文件在同目录，以保证 rename 的原子性
// - 对临时文件做 Sync；目录 Sync 不做（网络共享/可移动介质上语义不稳定）
func WriteFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// 前缀带 '.'，避免污染媒体库视图。
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, filepath.Join(dir, name))
}

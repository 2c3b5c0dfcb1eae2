package main

import (
	"errors"
	"fmt"
	"os"
)

// 退出码契约：
//
//	0  正常完成（audit 无问题条目）
//	1  audit 发现问题条目，或任何致命错误（SD 结构缺失、配置无效）
//	2  命令行参数错误
func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		switch {
		case errors.Is(err, errAuditIssues):
			// 问题清单已经打印，不再重复。
			os.Exit(1)
		default:
			var ue *usageError
			if errors.As(err, &ue) {
				fmt.Fprintf(os.Stderr, "参数错误：%v\n", ue.err)
				os.Exit(2)
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// errAuditIssues 表示 audit 正常完成但存在问题条目。
var errAuditIssues = errors.New("audit 发现问题条目")

// usageError 把 cobra 的参数解析错误与运行期错误区分开（退出码 2 vs 1）。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

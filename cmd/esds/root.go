package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/ESDS/internal/app/run"
	"github.com/John-Robertt/ESDS/internal/config"
	"github.com/John-Robertt/ESDS/internal/scan"
)

// rootFlags 汇集两个子命令共用的输入。
type rootFlags struct {
	master   string
	sd       string
	media    string
	profile  string
	profiles string
	systems  string
	fuzzy    bool
	verbose  bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "esds",
		Short:         "把 NAS 主库的 gamelist 与素材同步到 SD 卡（ES-DE 结构）",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.master, "master", "", "NAS 主库根目录（含 gamelists/ 与 downloaded_media/）")
	pf.StringVar(&flags.sd, "sd", "", "SD 卡根目录（含 ROMs/ 与 ES-DE/）")
	pf.StringVar(&flags.media, "media", "", "逗号分隔的素材类别列表（优先于 profile）")
	pf.StringVar(&flags.profile, "profile", "", "profiles 文件中的 profile 名")
	pf.StringVar(&flags.profiles, "profiles", "profiles.toml", "profiles 文件路径")
	pf.StringVar(&flags.systems, "systems", "", "逗号分隔的系统列表（默认扫描 SD:/ROMs 自动发现）")
	pf.BoolVar(&flags.fuzzy, "fuzzy", false, "启用宽松规范化与前缀回退匹配")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "输出 DEBUG 级日志")

	rootCmd.AddCommand(newSyncCommand(flags))
	rootCmd.AddCommand(newAuditCommand(flags))

	return rootCmd
}

// buildOptions 把 CLI 输入解析为引擎 Options：校验 SD 结构、解析类别、
// 确定系统列表。任何失败都是致命错误（退出码 1）。
func buildOptions(flags *rootFlags) (run.Options, error) {
	if flags.master == "" || flags.sd == "" {
		return run.Options{}, &usageError{err: fmt.Errorf("--master 与 --sd 都是必填项")}
	}

	sdRoot := scan.NormalizeSDRoot(flags.sd)
	if err := scan.ValidateSDRoot(sdRoot); err != nil {
		return run.Options{}, err
	}

	cats, err := config.ResolveCategories(config.Selection{
		Media:        flags.media,
		Profile:      flags.profile,
		ProfilesPath: flags.profiles,
	})
	if err != nil {
		return run.Options{}, err
	}

	systems := config.ResolveSystems(flags.systems)
	if systems == nil {
		systems, err = scan.ListSystems(sdRoot)
		if err != nil {
			return run.Options{}, fmt.Errorf("枚举 SD 系统目录失败：%w", err)
		}
	}

	return run.Options{
		MasterRoot: flags.master,
		SDRoot:     sdRoot,
		Systems:    systems,
		Categories: cats,
		Fuzzy:      flags.fuzzy,
	}, nil
}

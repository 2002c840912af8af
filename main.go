package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decker502/galton/pkg/app"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	configPath = flag.String("config", "", "棋盘配置文件路径（默认使用内置 data/board.yaml）")
	rows       = flag.Int("rows", 0, "钉子行数（覆盖配置）")
	seed       = flag.Int64("seed", 0, "随机种子（覆盖配置，0 表示不覆盖）")
	mute       = flag.Bool("mute", false, "禁用音频")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	galton, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Rows:       *rows,
		Seed:       *seed,
		Mute:       *mute,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Galton Board")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(galton); err != nil {
		fmt.Fprintf(os.Stderr, "运行失败: %v\n", err)
		os.Exit(1)
	}
}

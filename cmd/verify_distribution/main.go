// verify_distribution 无窗口运行高尔顿板并与二项分布比较
//
// 用法:
//
//	go run ./cmd/verify_distribution --rows 8 --balls 500 --seed 7
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/game"
)

const frame = 1.0 / 60.0

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	rows       = flag.Int("rows", 8, "钉子行数")
	balls      = flag.Int("balls", 300, "投放的球数")
	seed       = flag.Int64("seed", 1, "随机种子")
	interval   = flag.Int("interval", 4, "相邻两次投放间隔的帧数")
	maxFrames  = flag.Int("max-frames", 200000, "最多模拟的帧数")
	tolerance  = flag.Float64("tolerance", 0.15, "允许的最大总变差距离")
	configPath = flag.String("config", "", "棋盘配置文件路径")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg := config.DefaultBoardConfig()
	if *configPath != "" {
		loaded, err := config.LoadBoardConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.PegRows = config.CoerceRows(*rows)
	cfg.Seed = *seed
	cfg.AutoSpawn = false

	board, err := game.NewBoard(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create board: %v\n", err)
		os.Exit(1)
	}
	defer board.Teardown()

	counted := 0
	board.Subscribe(func(ev game.Event) {
		if ev.Kind == game.EventBallEnteredBucket {
			counted++
		}
	})

	frames := 0
	for ; frames < *maxFrames && counted < *balls; frames++ {
		if board.BallCount() < *balls && frames%*interval == 0 {
			if _, err := board.AddBall(); err != nil {
				fmt.Fprintf(os.Stderr, "AddBall failed: %v\n", err)
				os.Exit(1)
			}
		}
		board.Tick(frame)
	}

	counts := board.BucketCounts()
	pmf := binomialPMF(cfg.PegRows)
	expected := make([]float64, len(pmf))
	for i, p := range pmf {
		expected[i] = p * float64(counted)
	}

	fmt.Printf("rows=%d spawned=%d counted=%d frames=%d seed=%d\n",
		cfg.PegRows, board.BallCount(), counted, frames, cfg.Seed)
	fmt.Println("bucket  observed  expected")
	for i, c := range counts {
		bar := strings.Repeat("#", c*40/max(1, maxInt(counts)))
		fmt.Printf("%6d  %8d  %8.1f  %s\n", i, c, expected[i], bar)
	}

	chi := chiSquare(counts, expected)
	tv := totalVariation(counts, pmf)
	fmt.Printf("chi-square=%.2f (df=%d)  total-variation=%.3f\n", chi, cfg.PegRows, tv)

	stats := board.Stats().Snapshot()
	fmt.Printf("static promotions=%d forced sleeps=%d removed below floor=%d static removed=%d\n",
		stats.StaticPromotions, stats.ForcedSleeps, stats.FloorRemovals, stats.StaticRemovals)

	if counted < *balls {
		fmt.Printf("FAIL: only %d of %d balls reached a bucket\n", counted, *balls)
		os.Exit(1)
	}
	if tv > *tolerance {
		fmt.Printf("FAIL: total variation %.3f exceeds %.3f\n", tv, *tolerance)
		os.Exit(1)
	}
	fmt.Println("PASS")
}

func maxInt(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// galton_tui 在终端中运行高尔顿板模拟
//
// 用法:
//
//	go run ./cmd/galton_tui --rows 8 --seed 42
//
// 键位: space 投放  r 重置  c 清零  a 自动投放  +/- 行数  s 音效  q/Esc 退出
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/game"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	hudLines      = 2
	beepFrequency = 660
	beepDuration  = 30 * time.Millisecond
)

var (
	rows       = flag.Int("rows", 8, "钉子行数")
	seed       = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	speed      = flag.Float64("speed", config.DefaultAnimationSpeed, "动画速度倍率")
	configPath = flag.String("config", "", "棋盘配置文件路径")
	sound      = flag.Bool("sound", false, "入桶时播放提示音")
	verbose    = flag.Bool("verbose", false, "将日志写入 galton_tui.log")
)

type terminalBoard struct {
	screen        tcell.Screen
	board         *game.Board
	width, height int

	audioInit bool
	soundOn   bool
	entered   int // 本帧入桶数，由事件回调累计
}

func newTerminalBoard(board *game.Board) (*terminalBoard, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	tb := &terminalBoard{
		screen:  screen,
		board:   board,
		soundOn: *sound,
	}
	tb.width, tb.height = screen.Size()

	if err := tb.initAudio(); err != nil {
		// 无声卡时照常运行
		log.Printf("[TUI] Audio initialization failed: %v", err)
	}

	board.Subscribe(func(ev game.Event) {
		if ev.Kind == game.EventBallEnteredBucket {
			tb.entered++
		}
	})
	return tb, nil
}

func (tb *terminalBoard) initAudio() error {
	sampleRate := beep.SampleRate(game.SampleRate)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		tb.audioInit = true
	}
	return err
}

func (tb *terminalBoard) playBucketSound() {
	if !tb.audioInit || !tb.soundOn {
		return
	}
	sampleRate := beep.SampleRate(game.SampleRate)
	sine, err := generators.SineTone(sampleRate, beepFrequency)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(beepDuration), sine))
}

// handleInput 处理按键，返回 false 表示退出
func (tb *terminalBoard) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		cfg := tb.board.Config()
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			if _, err := tb.board.AddBall(); err != nil {
				log.Printf("[TUI] Warning: %v", err)
			}
		case 'r':
			tb.board.Reset()
		case 'c':
			tb.board.ClearCounts()
		case 'a':
			tb.board.SetAutoSpawn(!cfg.AutoSpawn)
		case '+', '=':
			if cfg.PegRows < config.MaxPegRows {
				tb.setRows(cfg.PegRows + 1)
			}
		case '-':
			if cfg.PegRows > 1 {
				tb.setRows(cfg.PegRows - 1)
			}
		case 's':
			tb.soundOn = !tb.soundOn
		}

	case *tcell.EventResize:
		tb.width, tb.height = tb.screen.Size()
		tb.screen.Sync()
	}
	return true
}

func (tb *terminalBoard) setRows(n int) {
	if err := tb.board.SetRows(n); err != nil {
		log.Printf("[TUI] Warning: failed to rebuild board: %v", err)
	}
}

func (tb *terminalBoard) draw() {
	tb.screen.Clear()

	cfg := tb.board.Config()
	p := newProjector(cfg.PegRows, tb.width, tb.height-hudLines)

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, bucket := range tb.board.Buckets() {
		for _, x := range []float64{bucket.X - bucket.Width/2, bucket.X + bucket.Width/2} {
			for y := bucket.Y - bucket.Height/2; y <= bucket.Y+bucket.Height/2; y += config.PegSpacingY / 4 {
				if col, row, ok := p.cell(x, y); ok {
					tb.screen.SetContent(col, row, '│', nil, wallStyle)
				}
			}
		}
	}

	pegStyle := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	for _, peg := range tb.board.Pegs() {
		if col, row, ok := p.cell(peg.X, peg.Y); ok {
			tb.screen.SetContent(col, row, '·', nil, pegStyle)
		}
	}

	for _, ball := range tb.board.Balls() {
		if col, row, ok := p.cell(ball.Position.X, ball.Position.Y); ok {
			tb.screen.SetContent(col, row, '●', nil, tcell.StyleDefault.Foreground(ballColor(ball.Color)))
		}
	}

	counts := tb.board.BucketCounts()
	status := fmt.Sprintf("rows %d  spawned %d  live %d  auto %v  sound %v   %s",
		cfg.PegRows, tb.board.BallCount(), tb.board.LiveBallCount(), cfg.AutoSpawn, tb.soundOn, sparkline(counts))
	help := "space add  r reset  c clear  a auto  +/- rows  s sound  q quit"
	tb.drawText(0, tb.height-2, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	tb.drawText(0, tb.height-1, help, tcell.StyleDefault.Foreground(tcell.ColorGray))

	tb.screen.Show()
}

func (tb *terminalBoard) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= tb.width {
			return
		}
		tb.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func ballColor(c uint32) tcell.Color {
	switch c {
	case components.BallColorSleeping:
		return tcell.ColorMaroon
	case components.BallColorSleepy:
		return tcell.ColorOrange
	default:
		return tcell.ColorRed
	}
}

func (tb *terminalBoard) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- tb.screen.PollEvent()
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !tb.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			tb.board.Tick(now.Sub(last).Seconds())
			last = now
			if tb.entered > 0 {
				tb.playBucketSound()
				tb.entered = 0
			}
			tb.draw()
		}
	}
}

func (tb *terminalBoard) cleanup() {
	if tb.audioInit {
		speaker.Close()
	}
	tb.screen.Fini()
	tb.board.Teardown()
}

func main() {
	flag.Parse()

	// 终端被 tcell 接管，日志只能写文件
	log.SetOutput(io.Discard)
	if *verbose {
		if f, err := os.Create("galton_tui.log"); err == nil {
			defer f.Close()
			log.SetOutput(f)
		}
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
	cfg.AnimationSpeed = config.CoerceAnimationSpeed(*speed)
	if *seed != 0 {
		cfg.Seed = *seed
	}

	board, err := game.NewBoard(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create board: %v\n", err)
		os.Exit(1)
	}

	tb, err := newTerminalBoard(board)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer tb.cleanup()

	tb.run()
}

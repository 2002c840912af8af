package game

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// SampleRate 音频采样率
const SampleRate = 44100

// 音效ID
const (
	SoundPegHit      = "peg"
	SoundBucketEntry = "bucket"
)

// Tone 合成音效参数
type Tone struct {
	Frequency float64 // 频率（Hz）
	Duration  float64 // 时长（秒）
	Amplitude float64 // 峰值振幅 0.0 ~ 1.0
}

// 默认音效：钉子是短促的高音，入桶是稍长的低音
var defaultTones = map[string]Tone{
	SoundPegHit:      {Frequency: 1320, Duration: 0.015, Amplitude: 0.25},
	SoundBucketEntry: {Frequency: 660, Duration: 0.04, Amplitude: 0.35},
}

// AudioManager 音频管理器
// 职责：
//   - 合成并缓存碰撞音效（无需音频资源文件）
//   - 从 SettingsManager 读取音效开关和音量
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager         // 设置管理器（用于读取音量设置，可为 nil）
	soundPlayers    map[string]*audio.Player // 音效播放器缓存（音效ID -> 播放器）
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文，为 nil 时所有播放调用都是空操作
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	am := &AudioManager{
		context:         ctx,
		settingsManager: sm,
		soundPlayers:    make(map[string]*audio.Player),
	}
	if ctx == nil {
		return am
	}
	for id, tone := range defaultTones {
		am.soundPlayers[id] = ctx.NewPlayerFromBytes(SynthesizeTone(tone, ctx.SampleRate()))
	}
	return am
}

// LoadSoundFile 用音频文件替换合成音效
//
// 支持的格式：MP3 (.mp3)、OGG Vorbis (.ogg)、WAV (.wav)。
// 失败时保留原有的合成音效。
func (am *AudioManager) LoadSoundFile(soundID, path string) error {
	if am.context == nil {
		return nil
	}
	if _, ok := defaultTones[soundID]; !ok {
		return fmt.Errorf("unknown sound id %q", soundID)
	}

	pcm, err := DecodeSoundFile(path, am.context.SampleRate())
	if err != nil {
		return err
	}
	am.soundPlayers[soundID] = am.context.NewPlayerFromBytes(pcm)
	log.Printf("[AudioManager] Loaded %s sound from %s", soundID, path)
	return nil
}

// DecodeSoundFile 解码音频文件为目标采样率的 16 位双声道 PCM
func DecodeSoundFile(path string, sampleRate int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound file %s: %w", path, err)
	}
	reader := bytes.NewReader(data)

	var stream io.Reader
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, reader)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, reader)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound file %s: %w", path, err)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded audio %s: %w", path, err)
	}
	return pcm, nil
}

// PlaySound 播放音效
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player, ok := am.soundPlayers[soundID]
	if !ok {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", soundID, err)
	}
	player.Play()
	return true
}

// OnBoardEvent 把棋盘事件转换为音效，可直接传给 Board.Subscribe
func (am *AudioManager) OnBoardEvent(ev Event) {
	if ev.Kind == EventBallEnteredBucket {
		am.PlaySound(SoundBucketEntry)
	}
}

// OnPegHits 本帧有钉子被击中时播放一次钉子音效
func (am *AudioManager) OnPegHits(hits int) {
	if hits > 0 {
		am.PlaySound(SoundPegHit)
	}
}

func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager == nil {
		return 0.8
	}
	return am.settingsManager.GetSettings().SoundVolume
}

// SynthesizeTone 生成 16 位小端双声道 PCM 正弦波
//
// 首尾做线性淡入淡出，避免爆音。
func SynthesizeTone(tone Tone, sampleRate int) []byte {
	frames := int(tone.Duration * float64(sampleRate))
	if frames <= 0 {
		return nil
	}
	fade := frames / 10
	if fade == 0 {
		fade = 1
	}

	buf := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		envelope := 1.0
		if i < fade {
			envelope = float64(i) / float64(fade)
		} else if remaining := frames - 1 - i; remaining < fade {
			envelope = float64(remaining) / float64(fade)
		}
		v := tone.Amplitude * envelope * math.Sin(2*math.Pi*tone.Frequency*float64(i)/float64(sampleRate))
		sample := int16(v * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(sample))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(sample))
	}
	return buf
}

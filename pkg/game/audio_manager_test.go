package game

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSynthesizeTone(t *testing.T) {
	tests := []struct {
		name       string
		tone       Tone
		wantFrames int
	}{
		{"peg click", Tone{Frequency: 1320, Duration: 0.015, Amplitude: 0.25}, 661},
		{"bucket click", Tone{Frequency: 660, Duration: 0.04, Amplitude: 0.35}, 1764},
		{"empty", Tone{Frequency: 440, Duration: 0, Amplitude: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pcm := SynthesizeTone(tt.tone, SampleRate)
			if len(pcm) != tt.wantFrames*4 {
				t.Fatalf("len = %d, want %d", len(pcm), tt.wantFrames*4)
			}
			if tt.wantFrames == 0 {
				return
			}

			limit := int16(tt.tone.Amplitude*32767) + 1
			for i := 0; i < tt.wantFrames; i++ {
				left := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
				right := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
				if left != right {
					t.Fatalf("frame %d: channels differ (%d, %d)", i, left, right)
				}
				if left > limit || left < -limit {
					t.Fatalf("frame %d: sample %d exceeds amplitude", i, left)
				}
			}
			// 淡入从 0 开始
			if first := int16(binary.LittleEndian.Uint16(pcm[0:])); first != 0 {
				t.Errorf("first sample = %d, want 0", first)
			}
		})
	}
}

func TestAudioManagerWithoutContext(t *testing.T) {
	am := NewAudioManager(nil, nil)
	if am.PlaySound(SoundPegHit) {
		t.Error("PlaySound without an audio context should report false")
	}
	am.OnBoardEvent(Event{Kind: EventBallEnteredBucket})
	am.OnPegHits(3)
}

func TestDecodeSoundFileErrors(t *testing.T) {
	dir := t.TempDir()
	unsupported := filepath.Join(dir, "click.flac")
	if err := os.WriteFile(unsupported, []byte("fLaC"), 0o644); err != nil {
		t.Fatal(err)
	}
	corrupt := filepath.Join(dir, "click.wav")
	if err := os.WriteFile(corrupt, []byte("not a riff file"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{"missing file", filepath.Join(dir, "missing.mp3"), "failed to read"},
		{"unsupported extension", unsupported, "unsupported audio format"},
		{"corrupt wav", corrupt, "failed to decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSoundFile(tt.path, SampleRate)
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("DecodeSoundFile() error = %v, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestDecodeSoundFileWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	pcm := SynthesizeTone(Tone{Frequency: 440, Duration: 0.01, Amplitude: 0.5}, SampleRate)
	if err := os.WriteFile(path, wavFile(pcm, SampleRate), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := DecodeSoundFile(path, SampleRate)
	if err != nil {
		t.Fatalf("DecodeSoundFile() error: %v", err)
	}
	if len(got) != len(pcm) {
		t.Errorf("decoded %d bytes, want %d", len(got), len(pcm))
	}
}

func TestLoadSoundFileWithoutContext(t *testing.T) {
	am := NewAudioManager(nil, nil)
	if err := am.LoadSoundFile(SoundPegHit, "missing.mp3"); err != nil {
		t.Errorf("LoadSoundFile without a context should be a no-op, got %v", err)
	}
}

// wavFile 为 16 位双声道 PCM 加上 RIFF 头
func wavFile(pcm []byte, sampleRate int) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	buf.WriteString("RIFF")
	binary.Write(&buf, le, uint32(36+len(pcm)))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, le, uint32(16))
	binary.Write(&buf, le, uint16(1)) // PCM
	binary.Write(&buf, le, uint16(2))
	binary.Write(&buf, le, uint32(sampleRate))
	binary.Write(&buf, le, uint32(sampleRate*4))
	binary.Write(&buf, le, uint16(4))
	binary.Write(&buf, le, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, le, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

package media

import (
	"fmt"
	"io"
	"os/exec"
)

// Audio devices are reached through the PulseAudio command line tools so
// the binary stays free of cgo audio bindings. parec produces raw 16kHz
// mono pcm, which is what the speech gateway and voice uploads expect.

// Mic opens the default capture device. The returned reader yields raw
// s16le audio until Close.
func Mic() (io.ReadCloser, error) {
	cmd := exec.Command("parec", "--format=s16le", "--rate=16000", "--channels=1")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open capture pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start capture: %w", err)
	}
	return &procReader{ReadCloser: stdout, cmd: cmd}, nil
}

// Playback opens the default output device. Writes are raw s16le audio.
func Playback() (io.WriteCloser, error) {
	cmd := exec.Command("pacat", "--format=s16le", "--rate=16000", "--channels=1")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open playback pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start playback: %w", err)
	}
	return &procWriter{WriteCloser: stdin, cmd: cmd}, nil
}

type procReader struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p *procReader) Close() error {
	err := p.ReadCloser.Close()
	_ = p.cmd.Process.Kill()
	_ = p.cmd.Wait()
	return err
}

type procWriter struct {
	io.WriteCloser
	cmd *exec.Cmd
}

func (p *procWriter) Close() error {
	err := p.WriteCloser.Close()
	_ = p.cmd.Wait()
	return err
}

// Package media records voice notes: capture from an injected audio source,
// upload through the REST API, then send the resulting URL as a voice
// message.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// maxNoteBytes caps a voice note at roughly five minutes of webm audio.
const maxNoteBytes = 8 << 20

// ErrBusy is returned when a recording is already in progress. The capture
// device is exclusive.
var ErrBusy = errors.New("media: recording already in progress")

// ErrNotRecording is returned by Finish and Cancel without an active take.
var ErrNotRecording = errors.New("media: no recording in progress")

// Uploader stores a finished voice note and returns its URL.
type Uploader interface {
	UploadVoice(ctx context.Context, r io.Reader) (string, error)
}

// VoiceSender delivers the uploaded note as a chat message.
type VoiceSender interface {
	SendVoice(to, voiceURL string)
}

// OpenSource opens the capture device. The recorder reads it until Finish
// or Cancel closes it.
type OpenSource func() (io.ReadCloser, error)

// Recorder buffers one voice note at a time.
type Recorder struct {
	open     OpenSource
	uploader Uploader
	sender   VoiceSender
	logger   *zap.Logger

	mu        sync.Mutex
	recording bool
	source    io.ReadCloser
	buf       *bytes.Buffer
	done      chan struct{}
}

func NewRecorder(open OpenSource, uploader Uploader, sender VoiceSender, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		open:     open,
		uploader: uploader,
		sender:   sender,
		logger:   logger,
	}
}

// Recording reports whether a take is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Start opens the capture device and begins buffering. Returns ErrBusy when
// a take is already running.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return ErrBusy
	}

	source, err := r.open()
	if err != nil {
		return fmt.Errorf("open audio source: %w", err)
	}
	r.recording = true
	r.source = source
	r.buf = &bytes.Buffer{}
	r.done = make(chan struct{})

	go r.capture(source, r.buf, r.done)
	return nil
}

func (r *Recorder) capture(source io.Reader, buf *bytes.Buffer, done chan struct{}) {
	defer close(done)
	limited := &countingWriter{w: buf, limit: maxNoteBytes}
	if _, err := io.Copy(limited, source); err != nil && !errors.Is(err, errNoteTooLong) {
		r.logger.Warn("voice capture ended", zap.Error(err))
	}
}

// Finish stops the take, uploads it and sends it to the contact.
func (r *Recorder) Finish(ctx context.Context, to string) error {
	buf, done, err := r.end()
	if err != nil {
		return err
	}
	<-done

	url, err := r.uploader.UploadVoice(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("upload voice note: %w", err)
	}
	r.sender.SendVoice(to, url)
	r.logger.Info("voice note sent", zap.String("to", to), zap.Int("bytes", buf.Len()))
	return nil
}

// Cancel stops the take and discards the audio.
func (r *Recorder) Cancel() error {
	_, done, err := r.end()
	if err != nil {
		return err
	}
	<-done
	return nil
}

func (r *Recorder) end() (*bytes.Buffer, chan struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return nil, nil, ErrNotRecording
	}
	r.recording = false
	_ = r.source.Close()
	buf, done := r.buf, r.done
	r.source, r.buf, r.done = nil, nil, nil
	return buf, done, nil
}

var errNoteTooLong = errors.New("media: voice note too long")

// countingWriter stops the copy once the cap is reached.
type countingWriter struct {
	w     io.Writer
	n     int
	limit int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.n+len(p) > c.limit {
		p = p[:c.limit-c.n]
		n, _ := c.w.Write(p)
		c.n += n
		return n, errNoteTooLong
	}
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

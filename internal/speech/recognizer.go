package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hafizhannan/baatcheet/internal/assistant"
)

const (
	handshakeTimeout = 30 * time.Second

	// chunkSize is 100ms of 16kHz 16-bit mono audio.
	chunkSize    = 3200
	sampleRate   = 16000
	audioFormat  = "pcm16"
	resultBuffer = 16
)

// ErrBusy is returned when a recognition session is already running. The
// microphone is exclusive; there is never more than one session.
var ErrBusy = errors.New("speech: session already running")

// Recognizer streams microphone audio to the gateway and emits transcripts.
// It implements assistant.Recognizer. A dropped connection restarts the
// session; an unsupported primary language falls back to English.
type Recognizer struct {
	url      string
	lang     string
	fallback string
	source   io.Reader
	dialer   *websocket.Dialer
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewRecognizer creates a recognizer reading audio from source. lang is the
// preferred recognition language, typically ur-PK; fallback is used when
// the gateway has no model for it.
func NewRecognizer(url, lang, fallback string, source io.Reader, logger *zap.Logger) *Recognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recognizer{
		url:      url,
		lang:     lang,
		fallback: fallback,
		source:   source,
		dialer:   &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		logger:   logger,
	}
}

// Start begins a recognition session. Returns ErrBusy if one is running.
// The returned channel closes when the session ends for good.
func (r *Recognizer) Start(ctx context.Context) (<-chan assistant.TranscriptEvent, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.running = true
	ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	out := make(chan assistant.TranscriptEvent, resultBuffer)
	go r.run(ctx, out)
	return out, nil
}

// Stop ends the session. Safe to call when none is running.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Recognizer) run(ctx context.Context, out chan<- assistant.TranscriptEvent) {
	defer close(out)
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	lang := r.lang
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = 0

	for {
		err := r.session(ctx, lang, out)
		if ctx.Err() != nil {
			return
		}
		if err != nil && errors.Is(err, errUnsupportedLanguage) && lang != r.fallback {
			r.logger.Warn("recognition language unsupported, falling back",
				zap.String("from", lang), zap.String("to", r.fallback))
			lang = r.fallback
			policy.Reset()
			continue
		}
		if err != nil {
			r.logger.Warn("recognition session ended", zap.Error(err))
		}
		select {
		case <-time.After(policy.NextBackOff()):
		case <-ctx.Done():
			return
		}
	}
}

var errUnsupportedLanguage = errors.New("speech: language not supported")

func (r *Recognizer) session(ctx context.Context, lang string, out chan<- assistant.TranscriptEvent) error {
	conn, _, err := r.dialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("dial speech gateway: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.WriteJSON(clientConfig{
		Type:     msgConfig,
		Language: lang,
		Format:   audioFormat,
		Rate:     sampleRate,
	}); err != nil {
		return fmt.Errorf("send config: %w", err)
	}
	r.logger.Info("recognition session open", zap.String("language", lang))

	// Close the socket when the caller stops; that unblocks both pumps.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	go r.pumpAudio(ctx, conn)

	for {
		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read transcript: %w", err)
		}
		switch msg.Type {
		case msgTranscript:
			select {
			case out <- assistant.TranscriptEvent{Text: msg.Text, Final: msg.Final}:
			case <-ctx.Done():
				return ctx.Err()
			}
		case msgError:
			if msg.Code == codeUnsupportedLanguage {
				return errUnsupportedLanguage
			}
			return fmt.Errorf("gateway error %s: %s", msg.Code, msg.Message)
		}
	}
}

func (r *Recognizer) pumpAudio(ctx context.Context, conn *websocket.Conn) {
	buf := make([]byte, chunkSize)
	for ctx.Err() == nil {
		n, err := r.source.Read(buf)
		if n > 0 {
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.logger.Warn("audio source read failed", zap.Error(err))
			}
			return
		}
	}
}

package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// speakRate slows synthesis down slightly; command confirmations are
	// easier to follow below normal speed.
	speakRate = 0.8

	englishVoice = "en-US"
	urduVoice    = "ur-PK"

	queueSize    = 8
	speakTimeout = 30 * time.Second
)

// Synthesizer speaks assistant answers through the gateway. It implements
// assistant.Speaker. Utterances are voiced one at a time in order; when the
// queue is full new ones are dropped rather than delaying the assistant.
type Synthesizer struct {
	url    string
	sink   io.Writer
	dialer *websocket.Dialer
	logger *zap.Logger

	// hasUrdu reports whether the gateway carries an Urdu voice. Without
	// one everything is spoken in English.
	hasUrdu bool

	queue  chan string
	once   sync.Once
	cancel context.CancelFunc
}

// NewSynthesizer creates a synthesizer writing audio to sink, normally the
// playback device.
func NewSynthesizer(url string, hasUrdu bool, sink io.Writer, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		url:     url,
		sink:    sink,
		dialer:  &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		logger:  logger,
		hasUrdu: hasUrdu,
		queue:   make(chan string, queueSize),
	}
}

// Start launches the playback worker.
func (s *Synthesizer) Start(ctx context.Context) {
	s.once.Do(func() {
		ctx, s.cancel = context.WithCancel(ctx)
		go s.loop(ctx)
	})
}

// Stop ends the worker. Queued utterances are discarded.
func (s *Synthesizer) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Speak queues one utterance. Never blocks.
func (s *Synthesizer) Speak(text string) {
	select {
	case s.queue <- text:
	default:
		s.logger.Warn("speech queue full, dropping utterance", zap.String("text", text))
	}
}

// UrduVoice reports whether Urdu answers can be voiced natively.
func (s *Synthesizer) UrduVoice() bool {
	return s.hasUrdu
}

func (s *Synthesizer) loop(ctx context.Context) {
	for {
		select {
		case text := <-s.queue:
			if err := s.speak(ctx, text); err != nil && ctx.Err() == nil {
				s.logger.Warn("synthesis failed", zap.Error(err), zap.String("text", text))
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Synthesizer) speak(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, speakTimeout)
	defer cancel()

	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial speech gateway: %w", err)
	}
	defer func() { _ = conn.Close() }()

	voice := englishVoice
	if s.hasUrdu && ContainsArabic(text) {
		voice = urduVoice
	}
	if err := conn.WriteJSON(speakRequest{
		Type:  msgSpeak,
		Text:  text,
		Voice: voice,
		Rate:  speakRate,
	}); err != nil {
		return fmt.Errorf("send speak request: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}
		switch kind {
		case websocket.BinaryMessage:
			if _, err := s.sink.Write(data); err != nil {
				return fmt.Errorf("write audio: %w", err)
			}
		case websocket.TextMessage:
			var msg serverMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				return fmt.Errorf("decode control frame: %w", err)
			}
			switch msg.Type {
			case msgDone:
				return nil
			case msgError:
				return fmt.Errorf("gateway error %s: %s", msg.Code, msg.Message)
			}
		}
	}
}

// ContainsArabic reports whether text contains Arabic-script characters,
// which is how Urdu answers are told apart from English ones.
func ContainsArabic(text string) bool {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

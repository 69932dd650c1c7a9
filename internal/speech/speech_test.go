package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// silentSource blocks like a microphone with nobody talking.
func silentSource() io.Reader {
	pr, _ := io.Pipe()
	return pr
}

func TestRecognizerStreamsTranscripts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		defer func() { _ = conn.Close() }()

		var cfg clientConfig
		if err := conn.ReadJSON(&cfg); err != nil {
			t.Errorf("read config: %v", err)
			return
		}
		if cfg.Type != msgConfig || cfg.Language != "ur-PK" || cfg.Rate != sampleRate {
			t.Errorf("config = %+v", cfg)
		}

		_ = conn.WriteJSON(serverMessage{Type: msgTranscript, Text: "open a"})
		_ = conn.WriteJSON(serverMessage{Type: msgTranscript, Text: "open ali", Final: true})
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	rec := NewRecognizer(wsURL(srv), "ur-PK", "en-US", silentSource(), nil)
	out, err := rec.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer rec.Stop()

	first := <-out
	if first.Text != "open a" || first.Final {
		t.Errorf("first = %+v, want interim", first)
	}
	second := <-out
	if second.Text != "open ali" || !second.Final {
		t.Errorf("second = %+v, want final", second)
	}
}

func TestRecognizerExclusive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		var cfg clientConfig
		_ = conn.ReadJSON(&cfg)
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	rec := NewRecognizer(wsURL(srv), "ur-PK", "en-US", silentSource(), nil)
	out, err := rec.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := rec.Start(context.Background()); err != ErrBusy {
		t.Errorf("second Start() error = %v, want ErrBusy", err)
	}

	rec.Stop()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after Stop")
		}
	}
}

func TestRecognizerFallsBackToEnglish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		var cfg clientConfig
		if err := conn.ReadJSON(&cfg); err != nil {
			return
		}
		if cfg.Language != "en-US" {
			_ = conn.WriteJSON(serverMessage{Type: msgError, Code: codeUnsupportedLanguage, Message: "no such voice pack"})
			return
		}
		_ = conn.WriteJSON(serverMessage{Type: msgTranscript, Text: "hello", Final: true})
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	rec := NewRecognizer(wsURL(srv), "ur-PK", "en-US", silentSource(), nil)
	out, err := rec.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Stop()

	select {
	case ev := <-out:
		if ev.Text != "hello" || !ev.Final {
			t.Errorf("transcript = %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no transcript after language fallback")
	}
}

type captureSink struct {
	mu  sync.Mutex
	buf []byte
}

func (c *captureSink) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf = append(c.buf, p...)
	return len(p), nil
}

func (c *captureSink) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

func TestSynthesizerVoiceSelection(t *testing.T) {
	var mu sync.Mutex
	var voices []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		var req speakRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		mu.Lock()
		voices = append(voices, req.Voice)
		mu.Unlock()
		if req.Rate != speakRate {
			t.Errorf("rate = %v", req.Rate)
		}
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte("audio-bytes"))
		_ = conn.WriteJSON(serverMessage{Type: msgDone})
	}))
	defer srv.Close()

	sink := &captureSink{}
	syn := NewSynthesizer(wsURL(srv), true, sink, nil)
	syn.Start(context.Background())
	defer syn.Stop()

	syn.Speak("آج پیر ہے")
	syn.Speak("Message sent successfully.")

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := len(voices)
		mu.Unlock()
		if n == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("utterances not synthesized in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if voices[0] != urduVoice || voices[1] != englishVoice {
		t.Errorf("voices = %v, want [ur-PK en-US]", voices)
	}
	if sink.size() == 0 {
		t.Error("no audio written to sink")
	}
}

func TestSynthesizerReadsUntilDoneFrame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		var req speakRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		// Audio interleaved with a non-terminal control frame; only the
		// done frame ends the utterance.
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte("aa"))
		_ = conn.WriteJSON(serverMessage{Type: "progress"})
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte("bb"))
		_ = conn.WriteJSON(serverMessage{Type: msgDone})
	}))
	defer srv.Close()

	sink := &captureSink{}
	syn := NewSynthesizer(wsURL(srv), false, sink, nil)
	syn.Start(context.Background())
	defer syn.Stop()

	syn.Speak("two chunks")

	deadline := time.After(5 * time.Second)
	for sink.size() < 4 {
		select {
		case <-deadline:
			t.Fatalf("sink has %d bytes, want 4; a control frame ended playback early", sink.size())
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestSynthesizerWithoutUrduVoice(t *testing.T) {
	syn := NewSynthesizer("ws://unused", false, &captureSink{}, nil)
	if syn.UrduVoice() {
		t.Error("UrduVoice() = true, want false")
	}
}

func TestContainsArabic(t *testing.T) {
	if !ContainsArabic("آج پیر ہے") {
		t.Error("Urdu text not detected")
	}
	if ContainsArabic("plain english") {
		t.Error("false positive on English")
	}
}

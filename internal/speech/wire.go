// Package speech streams audio to and from the BaatCheet speech gateway
// over websockets: recognition (speech to text) and synthesis (text to
// speech). Audio devices are injected as plain readers and writers so the
// package never touches hardware directly.
package speech

// clientConfig opens a recognition session.
type clientConfig struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Format   string `json:"format"`
	Rate     int    `json:"rate"`
}

// speakRequest opens a synthesis session for one utterance.
type speakRequest struct {
	Type  string  `json:"type"`
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Rate  float64 `json:"rate"`
}

// serverMessage is every JSON frame the gateway sends. Binary frames carry
// synthesized audio and bypass this type.
type serverMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Final   bool   `json:"final,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	msgConfig     = "config"
	msgSpeak      = "speak"
	msgTranscript = "transcript"
	msgDone       = "done"
	msgError      = "error"

	codeUnsupportedLanguage = "unsupported_language"
)

package assistant

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Intent
	}{
		{"stop english", "stop", StopListening{}},
		{"stop urdu", "band karo", StopListening{}},
		{"stop bas", "bas", StopListening{}},

		{"date urdu", "aaj ki date kya hai", QueryDateTime{Kind: AskDate}},
		{"date english", "what is the date", QueryDateTime{Kind: AskDate}},
		{"time urdu", "kitne baj gaye", QueryDateTime{Kind: AskTime}},
		{"time english", "what time is it", QueryDateTime{Kind: AskTime}},
		{"day urdu", "aaj kaun sa din hai", QueryDateTime{Kind: AskDay}},

		{"introduce english", "who are you", Introduce{}},
		{"introduce urdu", "tum kaun ho", Introduce{}},
		{"developer", "what is the nickname of developer", DeveloperInfo{}},

		{"open english", "open ali", OpenContact{Name: "ali"}},
		{"open chat with", "open chat with sara ahmed", OpenContact{Name: "sara ahmed"}},
		{"open urdu", "kholo ali", OpenContact{Name: "ali"}},

		{"emoji english", "send happy emoji to ali", SendEmoji{ContactName: "ali", EmojiName: "happy"}},
		{"emoji english article", "send a thumbs up emoji to sara", SendEmoji{ContactName: "sara", EmojiName: "thumbs up"}},
		{"emoji ko contact first", "ali ko happy emoji bhej do", SendEmoji{ContactName: "ali", EmojiName: "happy"}},
		{"emoji ko emoji first", "happy emoji ali ko bhej do", SendEmoji{ContactName: "ali", EmojiName: "happy"}},

		{"message saying", "send a message to ali saying see you tomorrow", SendText{ContactName: "ali", Text: "see you tomorrow"}},
		{"message short", "message ali saying hello there", SendText{ContactName: "ali", Text: "hello there"}},
		{"say to", "say hello to ali", SendText{ContactName: "ali", Text: "hello"}},
		{"send to", "send salaam to sara", SendText{ContactName: "sara", Text: "salaam"}},
		{"urdu bhej do", "ali ko salaam bhej do", SendText{ContactName: "ali", Text: "salaam"}},
		{"urdu bolo", "bolo salaam ali ko", SendText{ContactName: "ali", Text: "salaam"}},

		{"bare name", "sara ahmed", OpenContact{Name: "sara ahmed", Implicit: true}},
		{"bare name with particle", "ali ko", OpenContact{Name: "ali", Implicit: true}},
		{"too short", "hi", Unrecognized{}},
		{"empty", "", Unrecognized{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Normalize(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

// Stop must outrank everything, and emoji must outrank the generic send
// rules even though both would match.
func TestClassifyPrecedence(t *testing.T) {
	if _, ok := Classify("goodbye").(StopListening); !ok {
		t.Error("goodbye must classify as stop, not a bare name")
	}
	if _, ok := Classify("send happy emoji to ali").(SendEmoji); !ok {
		t.Error("emoji command must not fall through to message send")
	}
	if _, ok := Classify("open ali").(OpenContact); !ok {
		t.Error("open must outrank bare-name fallback")
	}
}

func TestLookupEmoji(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"happy", "😊"},
		{"Thumbs Up", "👍"},
		{"red heart", "❤️"},
		{"laughing", "😂"},
		{"no such emoji", ""},
	}
	for _, tt := range tests {
		if got := LookupEmoji(tt.in); got != tt.want {
			t.Errorf("LookupEmoji(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

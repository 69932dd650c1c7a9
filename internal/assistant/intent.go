package assistant

import (
	"regexp"
	"strings"
)

// Intent is a classified voice command. Classification is pure: it looks at
// the normalized transcript only and never touches the contact list or any
// other state.
type Intent interface{ intent() }

// StopListening ends the assistant session.
type StopListening struct{}

// DateTimeKind selects which clock question was asked.
type DateTimeKind int

const (
	AskDate DateTimeKind = iota
	AskTime
	AskDay
)

// QueryDateTime asks for the current date, time or weekday.
type QueryDateTime struct{ Kind DateTimeKind }

// Introduce asks the assistant to describe itself.
type Introduce struct{}

// DeveloperInfo asks for the developer's nickname.
type DeveloperInfo struct{}

// OpenContact opens the chat with the named contact. Implicit marks the
// bare-name fallback, where the whole utterance was treated as a name.
type OpenContact struct {
	Name     string
	Implicit bool
}

// SendEmoji sends a named emoji to a contact.
type SendEmoji struct {
	ContactName string
	EmojiName   string
}

// SendText sends free text to a contact.
type SendText struct {
	ContactName string
	Text        string
}

// Unrecognized is the terminal fallback.
type Unrecognized struct{}

func (StopListening) intent() {}
func (QueryDateTime) intent() {}
func (Introduce) intent()     {}
func (DeveloperInfo) intent() {}
func (OpenContact) intent()   {}
func (SendEmoji) intent()     {}
func (SendText) intent()      {}
func (Unrecognized) intent()  {}

// rule is one named classification step. Rules run in order and the first
// one that fires wins, so precedence lives in the table, not in the code.
type rule struct {
	name  string
	match func(t string) (Intent, bool)
}

var rules = []rule{
	{"stop", matchStop},
	{"datetime", matchDateTime},
	{"introduce", matchIntroduce},
	{"developer", matchDeveloper},
	{"open", matchOpen},
	{"emoji", matchEmoji},
	{"send", matchSend},
	{"bare-name", matchBareName},
}

// Classify maps a normalized transcript to an intent. Input must already be
// in Normalize form.
func Classify(t string) Intent {
	for _, r := range rules {
		if intent, ok := r.match(t); ok {
			return intent
		}
	}
	return Unrecognized{}
}

var stopRe = regexp.MustCompile(`^(stop|quit|exit|goodbye|ruk ja|band karo|khatam karo|bas|rukho)$`)

func matchStop(t string) (Intent, bool) {
	if stopRe.MatchString(t) {
		return StopListening{}, true
	}
	return nil, false
}

var dateTimePhrases = []struct {
	kind    DateTimeKind
	phrases []string
}{
	{AskDate, []string{
		"aaj ki date", "aj ki date", "date kya hai", "aaj kitna tarikh hai",
		"what is the date", "todays date",
	}},
	{AskTime, []string{
		"time kya hua", "kitne baj gaye", "time kya hai", "abhi time kya hua",
		"what time is it", "what is the time",
	}},
	{AskDay, []string{
		"aaj kaun sa din hai", "aaj kya din hai",
		"what day is it", "which day is it",
	}},
}

func matchDateTime(t string) (Intent, bool) {
	for _, group := range dateTimePhrases {
		for _, p := range group.phrases {
			if strings.Contains(t, p) {
				return QueryDateTime{Kind: group.kind}, true
			}
		}
	}
	return nil, false
}

var introduceRe = regexp.MustCompile(
	`^(who are you|what is your purpose|introduce yourself|tum kaun ho|tumhara kaam kya hai|tumhara maqsad kia ha|tumhara purpose kia ha)$`)

func matchIntroduce(t string) (Intent, bool) {
	if introduceRe.MatchString(t) {
		return Introduce{}, true
	}
	return nil, false
}

var developerRe = regexp.MustCompile(
	`^(what is the nickname of developer|hafiz abdul hannan ka nickname kia ha)$`)

func matchDeveloper(t string) (Intent, bool) {
	if developerRe.MatchString(t) {
		return DeveloperInfo{}, true
	}
	return nil, false
}

var openRe = regexp.MustCompile(`^(open chat with|go to|open|kholo|khologe|khol)\s+(.+)$`)

func matchOpen(t string) (Intent, bool) {
	if m := openRe.FindStringSubmatch(t); m != nil {
		return OpenContact{Name: m[2]}, true
	}
	return nil, false
}

// Emoji phrasings. The Urdu "ko" particle flips the argument order: in
// "<contact> ko <emoji> emoji bhej do" the contact comes first, while in
// "<emoji> emoji <contact> ko bhej do" the emoji does.
var emojiRes = []struct {
	re           *regexp.Regexp
	contactFirst bool
}{
	{regexp.MustCompile(`^send\s+(?:a\s+)?(.+?)\s+emoji\s+to\s+(.+)$`), false},
	{regexp.MustCompile(`^(.+?)\s+ko\s+(.+?)\s+emoji(?:\s+(?:bhej\s*do|bhejdo|send|bhej))?$`), true},
	{regexp.MustCompile(`^(.+?)\s+emoji\s+(.+?)\s+ko(?:\s+(?:bhej\s*do|bhejdo|bhej))?$`), false},
	{regexp.MustCompile(`^(.+?)\s+emoji\s+to\s+(.+)$`), false},
}

func matchEmoji(t string) (Intent, bool) {
	for _, er := range emojiRes {
		if m := er.re.FindStringSubmatch(t); m != nil {
			if er.contactFirst {
				return SendEmoji{ContactName: m[1], EmojiName: m[2]}, true
			}
			return SendEmoji{ContactName: m[2], EmojiName: m[1]}, true
		}
	}
	return nil, false
}

// Message phrasings, most specific first. The catch-all "send <name> <text>"
// must come after every emoji rule or it would swallow emoji commands.
var sendRes = []struct {
	re               *regexp.Regexp
	nameIdx, textIdx int
}{
	{regexp.MustCompile(`^send\s+(?:a\s+)?message\s+to\s+(.+?)\s+saying\s+(.+)$`), 1, 2},
	{regexp.MustCompile(`^send\s+message\s+to\s+(.+?)\s+(.+)$`), 1, 2},
	{regexp.MustCompile(`^message\s+(.+?)\s+saying\s+(.+)$`), 1, 2},
	{regexp.MustCompile(`^say\s+(.+?)\s+to\s+(.+)$`), 2, 1},
	{regexp.MustCompile(`^send\s+(.+?)\s+to\s+(.+)$`), 2, 1},
	{regexp.MustCompile(`^bolo\s+(.+?)\s+(.+?)\s+ko$`), 2, 1},
	{regexp.MustCompile(`^(.+?)\s+ko\s+(.+?)\s+(?:bhej\s*do|bhejdo|kar\s*do|kardo|send|bhej)$`), 1, 2},
	{regexp.MustCompile(`^message\s+(.+?)\s+(.+)$`), 1, 2},
	{regexp.MustCompile(`^send\s+(.+?)\s+(.+)$`), 1, 2},
}

func matchSend(t string) (Intent, bool) {
	for _, sr := range sendRes {
		if m := sr.re.FindStringSubmatch(t); m != nil {
			return SendText{ContactName: m[sr.nameIdx], Text: m[sr.textIdx]}, true
		}
	}
	return nil, false
}

var bareNameRe = regexp.MustCompile(`^(.+?)(?:\s+(?:ko|chat|message|kholo|khol))?$`)

func matchBareName(t string) (Intent, bool) {
	m := bareNameRe.FindStringSubmatch(t)
	if m == nil {
		return nil, false
	}
	name := strings.TrimSpace(m[1])
	if len(name) <= 2 {
		return nil, false
	}
	return OpenContact{Name: name, Implicit: true}, true
}

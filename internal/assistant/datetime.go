package assistant

import (
	"fmt"
	"time"
)

// Urdu calendar names are spoken through the Urdu voice, so they are kept
// in Arabic script rather than Roman transliteration.
var urduWeekdays = [7]string{
	"اتوار", "پیر", "منگل", "بدھ", "جمعرات", "جمعہ", "ہفتہ",
}

var urduMonths = [12]string{
	"جنوری", "فروری", "مارچ", "اپریل", "مئی", "جون",
	"جولائی", "اگست", "ستمبر", "اکتوبر", "نومبر", "دسمبر",
}

// AnswerDateTime produces the spoken answer and the status-bar hint for a
// clock question. The spoken form is Urdu when an Urdu voice is available,
// the hint is always English.
func AnswerDateTime(kind DateTimeKind, now time.Time, urdu bool) (speech, hint string) {
	switch kind {
	case AskDate:
		en := now.Format("Monday, January 2, 2006")
		hint = "Today's date: " + en
		if urdu {
			speech = fmt.Sprintf("آج کی تاریخ %s، %d %s %d ہے",
				urduWeekdays[now.Weekday()], now.Day(), urduMonths[now.Month()-1], now.Year())
		} else {
			speech = "Today's date is " + en
		}
	case AskTime:
		en := now.Format("3:04 PM")
		hint = "Current time: " + en
		if urdu {
			speech = fmt.Sprintf("اب کا وقت %s ہے", en)
		} else {
			speech = "The time is " + en
		}
	case AskDay:
		en := now.Format("Monday")
		hint = "Today is " + en
		if urdu {
			speech = fmt.Sprintf("آج %s ہے", urduWeekdays[now.Weekday()])
		} else {
			speech = "Today is " + en
		}
	}
	return speech, hint
}

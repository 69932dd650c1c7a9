package assistant

// emojiByName maps spoken emoji names, normalized, to the glyph that gets
// sent. Several aliases point at the same glyph so common phrasings all
// resolve.
var emojiByName = map[string]string{
	"happy":    "😊",
	"smile":    "😊",
	"smiley":   "😊",
	"smiling":  "😊",
	"joy":      "😂",
	"laugh":    "😂",
	"laughing": "😂",
	"lol":      "😂",

	"love":      "❤️",
	"heart":     "❤️",
	"red heart": "❤️",
	"kiss":      "😘",
	"kissing":   "😘",
	"blow kiss": "😘",
	"hug":       "🤗",
	"hugging":   "🤗",
	"hugs":      "🤗",

	"excited":     "🤩",
	"star eyes":   "🤩",
	"amazing":     "🤩",
	"party":       "🎉",
	"celebrate":   "🎉",
	"celebration": "🎉",
	"clap":        "👏",
	"clapping":    "👏",
	"applause":    "👏",

	"sad":          "😢",
	"cry":          "😢",
	"crying":       "😢",
	"tear":         "😢",
	"angry":        "😠",
	"mad":          "😠",
	"upset":        "😠",
	"worried":      "😟",
	"concern":      "😟",
	"concerned":    "😟",
	"disappointed": "😞",
	"down":         "😞",

	"thumbs up":   "👍",
	"thumbs":      "👍",
	"like":        "👍",
	"good":        "👍",
	"thumbs down": "👎",
	"dislike":     "👎",
	"bad":         "👎",
	"ok":          "👌",
	"okay":        "👌",
	"perfect":     "👌",
	"peace":       "✌️",
	"victory":     "✌️",
	"wave":        "👋",
	"hi":          "👋",
	"hello":       "👋",
	"bye":         "👋",
	"pray":        "🙏",
	"thanks":      "🙏",
	"please":      "🙏",
	"grateful":    "🙏",

	"fire":     "🔥",
	"lit":      "🔥",
	"hot":      "🔥",
	"sun":      "☀️",
	"sunny":    "☀️",
	"moon":     "🌙",
	"star":     "⭐",
	"stars":    "⭐",
	"flower":   "🌸",
	"flowers":  "🌸",
	"gift":     "🎁",
	"present":  "🎁",
	"cake":     "🎂",
	"birthday": "🎂",
	"coffee":   "☕",
	"tea":      "🍵",
	"pizza":    "🍕",
	"food":     "🍕",

	"thinking":   "🤔",
	"think":      "🤔",
	"hmm":        "🤔",
	"wink":       "😉",
	"winking":    "😉",
	"cool":       "😎",
	"sunglasses": "😎",
	"awesome":    "😎",
	"shocked":    "😱",
	"surprise":   "😱",
	"surprised":  "😱",
	"sleepy":     "😴",
	"sleep":      "😴",
	"tired":      "😴",
	"sick":       "🤒",
	"ill":        "🤒",
	"fever":      "🤒",

	"cat":        "🐱",
	"dog":        "🐶",
	"heart eyes": "😍",
	"monkey":     "🐵",
	"lion":       "🦁",
	"tiger":      "🐯",

	"rain":    "🌧️",
	"snow":    "❄️",
	"cloud":   "☁️",
	"morning": "🌅",
	"evening": "🌆",
	"night":   "🌃",

	"blue heart":   "💙",
	"green heart":  "💚",
	"yellow heart": "💛",
	"purple heart": "💜",
	"orange heart": "🧡",
	"black heart":  "🖤",
}

// LookupEmoji resolves a spoken emoji name to a glyph. The empty string
// means the name is not in the table.
func LookupEmoji(name string) string {
	return emojiByName[Normalize(name)]
}

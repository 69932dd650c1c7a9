package assistant

import (
	"strings"

	"github.com/hafizhannan/baatcheet/internal/chat"
)

const exactScore = 999

// BestContact fuzzy-matches a spoken name against the contact list and
// returns the best candidate with its score. An exact normalized match wins
// outright; otherwise candidates score one point per shared token plus half
// a point when the candidate name contains the query as a substring. Ties
// keep the earlier contact in list order. Score 0 means no match.
func BestContact(contacts []chat.Contact, spoken string) (chat.Contact, float64) {
	query := Normalize(spoken)
	if query == "" {
		return chat.Contact{}, 0
	}
	queryTokens := Tokens(query)

	var best chat.Contact
	var bestScore float64
	for _, c := range contacts {
		name := Normalize(c.Name)
		if name == query {
			return c, exactScore
		}
		score := 0.0
		for _, qt := range queryTokens {
			for _, nt := range Tokens(name) {
				if qt == nt {
					score++
					break
				}
			}
		}
		if strings.Contains(name, query) {
			score += 0.5
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore
}

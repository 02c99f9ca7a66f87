package responder

import (
	"strings"
	"unicode/utf8"
)

// minReplyRunes ответы короче считаются отказом модели.
const minReplyRunes = 10

// refusalPhrases признаки отказа, извинений или упоминания того, что отвечает ИИ.
var refusalPhrases = []string{
	"i cannot",
	"i can't",
	"я не могу",
	"извините",
	"as an ai",
	"я ai",
	"я искусственный",
	"inappropriate",
	"неуместно",
	"неприемлемо",
	"sorry",
	"прости",
}

// Rejected сообщает, что ответ модели не годится для пользователя.
func Rejected(text string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minReplyRunes {
		return true
	}
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

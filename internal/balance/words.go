package balance

import (
	"strings"
	"unicode"
)

const ellipsis = "…"

var fillerSentences = []string{
	"This area will be reviewed regularly as the business grows and new information becomes available.",
	"The founders will track progress against this plan and adjust priorities based on measured results.",
	"Further detail can be provided to investors and partners on request during due diligence.",
}

// CountWords считает слова: токены без букв и цифр (маркеры списков, "**") не учитываются.
func CountWords(text string) int {
	count := 0
	for _, token := range strings.Fields(text) {
		if isWord(token) {
			count++
		}
	}

	return count
}

// Truncate обрезает текст до max слов, сохраняя исходные переносы строк. У последнего слова
// срезается хвостовая пунктуация и добавляется многоточие.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if CountWords(text) <= max {
		return text
	}

	count := 0
	cut := len(text)
	inToken := false
	tokenStart := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inToken {
				inToken = false
				if isWord(text[tokenStart:i]) {
					count++
					if count == max {
						cut = i
						break
					}
				}
			}
			continue
		}
		if !inToken {
			inToken = true
			tokenStart = i
		}
	}

	head := strings.TrimRightFunc(text[:cut], unicode.IsSpace)
	head = strings.TrimRight(head, ",.;:!?-–—")

	return head + ellipsis
}

// Pad дописывает нейтральные предложения, пока текст не достигнет min слов.
func Pad(text string, min int) string {
	text = strings.TrimSpace(text)
	for i := 0; CountWords(text) < min; i++ {
		sentence := fillerSentences[i%len(fillerSentences)]
		if text == "" {
			text = sentence
			continue
		}
		text += " " + sentence
	}

	return text
}

func isWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

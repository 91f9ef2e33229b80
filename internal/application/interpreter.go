package application

import (
	"strings"

	"github.com/bnema/smartworker/internal/domain"
)

type commandRule struct {
	kind   domain.CommandKind
	tokens []string
}

// Checked in order; the first rule with a matching word wins.
var commandRules = []commandRule{
	{kind: domain.CommandReturnContract, tokens: []string{"return_contract"}},
	{kind: domain.CommandFinishContract, tokens: []string{"finish_contract", "ready_for_validation"}},
	{kind: domain.CommandRunCode, tokens: []string{"run_code"}},
	{kind: domain.CommandWriteFile, tokens: []string{"write_file"}},
}

const trailingPunctuation = ".,;:!?"

// ParseCommand finds the highest-priority command word in text. A command
// word is a whitespace-delimited token, optionally prefixed by "/" and
// followed by punctuation. Quoted or backticked tokens are treated as
// commentary. Arguments are the words that follow the matched token.
func ParseCommand(text string) domain.Command {
	words := strings.Fields(text)

	for _, rule := range commandRules {
		for i, word := range words {
			token, ok := matchCommandWord(word, rule.tokens)
			if !ok {
				continue
			}

			cmd := domain.Command{Kind: rule.kind, Token: token, Raw: text}
			args := words[i+1:]
			if len(args) > 0 {
				cmd.Filename = args[0]
			}
			if len(args) > 1 {
				cmd.Content = strings.Join(args[1:], " ")
			}
			return cmd
		}
	}

	return domain.Command{Kind: domain.CommandNone, Raw: text}
}

func matchCommandWord(word string, tokens []string) (string, bool) {
	if isQuoted(word) {
		return "", false
	}

	candidate := strings.TrimRight(word, trailingPunctuation)
	candidate = strings.TrimPrefix(candidate, "/")
	for _, token := range tokens {
		if candidate == token {
			return token, true
		}
	}

	return "", false
}

func isQuoted(word string) bool {
	const quotes = "\"'`“”‘’"
	if word == "" {
		return false
	}
	first := []rune(word)[0]
	trimmed := strings.TrimRight(word, trailingPunctuation)
	if trimmed == "" {
		return false
	}
	runes := []rune(trimmed)
	last := runes[len(runes)-1]

	return strings.ContainsRune(quotes, first) || strings.ContainsRune(quotes, last)
}

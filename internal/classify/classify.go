// Package classify tags reply text with an advisory content type hint.
// The result is rendering metadata only; it never affects control flow.
package classify

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/strandchat/strand/internal/chat"
)

// declPattern matches a leading declaration keyword, which on its own is
// strong enough evidence of code.
var declPattern = regexp.MustCompile(`^\s*(class|def|function)\s+`)

// openingTagPattern matches the start of a markup tag.
var openingTagPattern = regexp.MustCompile(`<[a-zA-Z]`)

// codeIndicators are weak signals; any two together classify as code.
var codeIndicators = []string{
	"import ", "export ", "require(",
	"def ", "class ", "function ",
	"const ", "let ", "var ",
	"public ", "private ", "static ", "void ",
	"SELECT ", "INSERT ", "UPDATE ",
	"=>", "&&", "||",
}

// Content returns the advisory content type for text: json when it is a
// bracketed, valid JSON document; code when it carries a fenced block, a
// leading declaration, or at least two weak indicators; text otherwise.
func Content(text string) chat.ContentType {
	switch {
	case isJSON(text):
		return chat.ContentJSON
	case isCode(text):
		return chat.ContentCode
	default:
		return chat.ContentText
	}
}

func isJSON(text string) bool {
	trimmed := strings.TrimSpace(text)
	bracketed := (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
	return bracketed && json.Valid([]byte(trimmed))
}

func isCode(text string) bool {
	if strings.Contains(text, "```") {
		return true
	}
	if declPattern.MatchString(text) {
		return true
	}

	count := 0
	for _, indicator := range codeIndicators {
		if strings.Contains(text, indicator) {
			count++
		}
	}
	if openingTagPattern.MatchString(text) {
		count++
	}
	return count >= 2
}

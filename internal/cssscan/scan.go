// Package cssscan tokenizes resolved CSS text to find class selectors, rewrite
// modifier classes and locate top-level rules. It is not a validator: text it
// does not understand is passed through unchanged.
package cssscan

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// token is one lexer token with its byte offset in the input
type token struct {
	tt     css.TokenType
	text   string
	offset int
}

// tokenize runs the lossless tdewolff lexer over content
func tokenize(content string) []token {
	lexer := css.NewLexer(parse.NewInputString(content))
	var out []token
	offset := 0
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			// ErrorToken at EOF is normal
			break
		}
		out = append(out, token{tt: tt, text: string(text), offset: offset})
		offset += len(text)
	}
	return out
}

func isDelim(t token, ch byte) bool {
	return t.tt == css.DelimToken && len(t.text) > 0 && t.text[0] == ch
}

// ClassRef is one `.name` class selector occurrence.
type ClassRef struct {
	Name string
	// Offset is the byte offset of the '.'.
	Offset int
	// Amp is true when the selector is attached to the parent reference,
	// as in `&.name`.
	Amp bool
}

// Classes returns every class selector in content in source order. Classes
// inside declaration values (for example inside url() or numbers) are not
// reported because the lexer never produces a '.' delimiter there.
func Classes(content string) []ClassRef {
	toks := tokenize(content)
	var refs []ClassRef
	for i := 0; i+1 < len(toks); i++ {
		if !isDelim(toks[i], '.') || toks[i+1].tt != css.IdentToken {
			continue
		}
		amp := i > 0 && isDelim(toks[i-1], '&')
		refs = append(refs, ClassRef{Name: toks[i+1].text, Offset: toks[i].offset, Amp: amp})
		i++
	}
	return refs
}

// AmpClasses returns the set of class names used as `&.name`.
func AmpClasses(content string) map[string]bool {
	out := make(map[string]bool)
	for _, ref := range Classes(content) {
		if ref.Amp {
			out[ref.Name] = true
		}
	}
	return out
}

// RewriteAmpClasses replaces `&.name` selectors whose name is a key of repl
// with `&.<repl[name]>`. Everything else is copied verbatim.
func RewriteAmpClasses(content string, repl map[string]string) string {
	if len(repl) == 0 {
		return content
	}
	toks := tokenize(content)
	var sb strings.Builder
	sb.Grow(len(content))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if i > 0 && i+1 < len(toks) && isDelim(t, '.') && isDelim(toks[i-1], '&') && toks[i+1].tt == css.IdentToken {
			if to, ok := repl[toks[i+1].text]; ok {
				sb.WriteString(".")
				sb.WriteString(to)
				i++
				continue
			}
		}
		sb.WriteString(t.text)
	}
	return sb.String()
}

// TopLevelRules returns the byte offset of the first token of every rule or
// at-rule at nesting depth zero.
func TopLevelRules(content string) []int {
	var starts []int
	depth := 0
	inRule := false
	for _, t := range tokenize(content) {
		switch t.tt {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				inRule = false
			}
			continue
		case css.SemicolonToken:
			if depth == 0 {
				inRule = false
			}
			continue
		}
		if depth == 0 && !inRule {
			starts = append(starts, t.offset)
			inRule = true
		}
	}
	return starts
}

// LineOf returns the 0-based line of offset in content.
func LineOf(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n")
}

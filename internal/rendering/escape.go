package rendering

import "strings"

// latexEscaper rewrites the characters LaTeX treats as special. Backslash,
// caret and tilde have no single-character escape and map to the standard
// text commands instead.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes LaTeX special characters so arbitrary posting or
// profile text can be embedded in a document body.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return latexEscaper.Replace(text)
}

package rendering

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DocumentNames returns the base filenames (without extension) for a
// candidate's CV and cover letter at a given company. French letters use
// the usual LM prefix, English ones CL.
func DocumentNames(name, company, lang string) (cvName, coverName string) {
	n := sanitizeFilePart(name)
	c := sanitizeFilePart(company)

	coverPrefix := "LM"
	if lang == "en" {
		coverPrefix = "CL"
	}
	return "CV_" + n + "_" + c, coverPrefix + "_" + n + "_" + c
}

// sanitizeFilePart strips accents and collapses every run of characters
// outside [A-Za-z0-9] into a single underscore.
func sanitizeFilePart(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}

	var b strings.Builder
	b.Grow(len(ascii))
	pendingSep := false
	for _, r := range ascii {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

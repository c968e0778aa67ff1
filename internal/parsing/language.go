package parsing

import "strings"

// Strong indicators are words or phrases essentially absent from the other
// language and very common in postings. A few hits decide the language
// outright, before the weaker word-count fallback runs.
var strongFrenchIndicators = []string{
	"vous", "nous", "votre", "notre", "être", "avoir",
	"poste", "rejoindre", "rejoignez", "postuler",
	"télétravail", "salaire", "candidature", "contrat",
	"équipe", "entreprise", "missions", "avantages",
	"profil recherché", "ce que nous offrons", "vos missions",
}

var strongEnglishIndicators = []string{
	"you will", "we are", "you are", "your role",
	"responsibilities", "requirements", "about us",
	"what we offer", "who you are", "what you'll do",
}

// Fallback vocabularies. These words exist in both languages' postings at
// different rates, so they only count as whole words and the comparison is
// biased toward French: English job postings sprinkle French pages with
// technical vocabulary far more than the reverse.
var frenchWords = []string{
	"poste", "vous", "nous", "équipe", "entreprise", "rejoindre",
	"candidature", "profil", "missions", "avantages", "salaire",
	"expérience", "compétences", "formation", "télétravail",
	"votre", "notre", "être", "avoir", "pour", "dans", "avec",
}

var englishWords = []string{
	"you", "we", "team", "company", "join", "application",
	"profile", "responsibilities", "benefits", "salary",
	"experience", "skills", "education", "remote", "role",
	"your", "our", "about", "will", "with",
}

// DetectLanguage classifies posting text as "fr" or "en".
func DetectLanguage(text string) string {
	return DetectLanguageWithHint(text, "")
}

// DetectLanguageWithHint classifies posting text as "fr" or "en". The hint,
// typically the page's html lang attribute, is only consulted when the text
// itself is inconclusive; page templates routinely disagree with the posting
// they host, so the content always wins.
func DetectLanguageWithHint(text, hint string) string {
	if strings.TrimSpace(text) == "" {
		if hint == "en" {
			return "en"
		}
		return "fr"
	}

	lower := strings.ToLower(text)

	if countContaining(lower, strongFrenchIndicators) >= 3 {
		return "fr"
	}
	if countContaining(lower, strongEnglishIndicators) >= 2 {
		return "en"
	}

	frenchCount := countWholeWords(lower, frenchWords)
	englishCount := countWholeWords(lower, englishWords)

	if englishCount > frenchCount+3 {
		return "en"
	}
	// Inside the bias band the text is ambiguous; let the page hint break
	// the tie when it actually favors English over the French default.
	if hint == "en" && englishCount > frenchCount {
		return "en"
	}
	return "fr"
}

// countContaining counts how many of the given terms appear anywhere in text.
func countContaining(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// countWholeWords counts how many of the given words appear surrounded by
// spaces. Cruder than a tokenizer but symmetric for both vocabularies.
func countWholeWords(text string, words []string) int {
	padded := " " + text + " "
	n := 0
	for _, w := range words {
		if strings.Contains(padded, " "+w+" ") {
			n++
		}
	}
	return n
}

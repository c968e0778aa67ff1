package parsing

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// techVocabulary is the controlled vocabulary of skill terms recognized in
// posting text. Longer terms match as lowercase substrings, so related terms
// like "pipeline" and "data pipeline" can both fire on the same sentence.
// Terms of four runes or fewer only match as whole words; "go", "r" or "git"
// are substrings of too many ordinary words to match bare.
var techVocabulary = []string{
	// Cloud
	"gcp", "google cloud", "aws", "azure", "cloud", "kubernetes", "docker", "terraform",
	// Data engineering
	"bigquery", "big query", "airflow", "kafka", "spark", "hadoop", "dataflow", "pub/sub",
	"etl", "elt", "pipeline", "data pipeline", "dbt", "fivetran", "airbyte",
	// Databases
	"sql", "nosql", "postgresql", "postgres", "mysql", "mongodb", "redis", "elasticsearch",
	"snowflake", "redshift", "databricks",
	// Programming
	"python", "java", "scala", "go", "golang", "bash", "shell", "r",
	// ML / AI
	"machine learning", "deep learning", "nlp", "tensorflow", "pytorch", "scikit-learn",
	"hugging face", "bert", "llm", "ia", "ai", "vertex ai", "mlops",
	// BI and visualization
	"power bi", "tableau", "looker", "lookml", "metabase", "data visualization", "dashboard",
	"semantic layer", "bi", "reporting",
	// Methodologies
	"agile", "scrum", "devops", "ci/cd", "git",
	// Data governance
	"data quality", "data governance", "gouvernance", "qualité des données", "rgpd", "gdpr",
	"data catalog", "metadata", "lineage",
	// Soft skills
	"anglais", "english", "communication", "équipe", "team",
}

const wholeWordMaxLen = 4

// ExtractKeywords scans text for vocabulary terms and returns the hits,
// deduplicated and sorted so that repeated runs over the same posting
// produce identical keyword lists.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0, 16)
	for _, kw := range techVocabulary {
		if matchesTerm(lower, kw) {
			found = append(found, kw)
		}
	}

	sort.Strings(found)
	return found
}

// matchesTerm reports whether term occurs in lowercased text. Short terms
// must sit on word boundaries; anything else matches as a substring.
func matchesTerm(lower, term string) bool {
	if len([]rune(term)) > wholeWordMaxLen {
		return strings.Contains(lower, term)
	}

	for start := 0; ; {
		i := strings.Index(lower[start:], term)
		if i < 0 {
			return false
		}
		i += start
		if boundaryBefore(lower, i) && boundaryAfter(lower, i+len(term)) {
			return true
		}
		start = i + len(term)
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// KeywordOverlap counts how many keywords the two lists share,
// case-insensitively. Used to score profile items against a posting.
func KeywordOverlap(itemKeywords, jobKeywords []string) int {
	jobSet := make(map[string]bool, len(jobKeywords))
	for _, k := range jobKeywords {
		jobSet[strings.ToLower(k)] = true
	}

	itemSeen := make(map[string]bool, len(itemKeywords))
	n := 0
	for _, k := range itemKeywords {
		lk := strings.ToLower(k)
		if itemSeen[lk] {
			continue
		}
		itemSeen[lk] = true
		if jobSet[lk] {
			n++
		}
	}
	return n
}

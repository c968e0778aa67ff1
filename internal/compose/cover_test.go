package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu/apply-pilot/internal/types"
)

func TestBuildCover_FrenchFormal(t *testing.T) {
	cover := buildCover(frenchPosting(), composeMatch())

	assert.Equal(t, "fr", cover.Language)
	assert.Equal(t, ToneFormal, cover.Tone)

	assert.Equal(t, "Fort de mon expérience en tant que Data Engineer chez Acme, je suis convaincu de pouvoir apporter une réelle valeur ajoutée à votre équipe.", cover.Hook)
	assert.Contains(t, cover.Company, "La mission de Acme")
	assert.Contains(t, cover.Company, "votre stack technique (AIRFLOW, GCP, PYTHON)")
	assert.Contains(t, cover.Company, "les défis ambitieux que vous proposez")
	assert.Contains(t, cover.Me, "Actuellement Data Engineer chez Acme")
	assert.Contains(t, cover.Me, "Mon expérience précédente en tant que Consultant Data chez Initech")
	assert.Contains(t, cover.Us, "Intégrer votre équipe en tant que Data Engineer")
	assert.Contains(t, cover.Us, "Python")
	assert.Contains(t, cover.Closing, "salutations distinguées")

	require.Len(t, cover.Paragraphs(), 5)
}

func TestBuildCover_StartupGetsCasualTone(t *testing.T) {
	posting := frenchPosting()
	posting.Description = "Startup en forte croissance, nous cherchons un profil Python."

	cover := buildCover(posting, composeMatch())

	assert.Equal(t, ToneCasual, cover.Tone)
	assert.Contains(t, cover.Company, "En tant que startup innovante, Acme")
	assert.Contains(t, cover.Closing, "Je serais ravi d'échanger")
}

func TestBuildCover_ScaleUp(t *testing.T) {
	posting := frenchPosting()
	posting.Description = "Scale-up du secteur retail, équipe data de 12 personnes."

	cover := buildCover(posting, composeMatch())

	assert.Equal(t, ToneCasual, cover.Tone)
	assert.Contains(t, cover.Company, "en pleine phase de croissance")
}

func TestBuildCover_EnglishPosting(t *testing.T) {
	posting := frenchPosting()
	posting.Language = "en"
	posting.Description = "You will own our data pipelines. We offer ambitious challenges."

	cover := buildCover(posting, composeMatch())

	assert.Equal(t, "en", cover.Language)
	assert.Contains(t, cover.Company, "The mission of Acme")
	assert.Contains(t, cover.Closing, "I look forward to your response")
}

func TestBuildCover_NoExperiences(t *testing.T) {
	match := composeMatch()
	match.SelectedExperiences = nil

	cover := buildCover(frenchPosting(), match)

	assert.Equal(t, coverPhrasesByLang["fr"].hookDefault, cover.Hook)
	assert.Empty(t, cover.Me)
	assert.Len(t, cover.Paragraphs(), 4)
}

func TestMatchingSkillItems(t *testing.T) {
	match := composeMatch()
	posting := frenchPosting()

	items := matchingSkillItems(match, posting, 4)

	// Python is an exact keyword, GCP is named in the description.
	assert.Contains(t, items, "Python")
	assert.Contains(t, items, "GCP")
	assert.NotContains(t, items, "Docker")
	assert.LessOrEqual(t, len(items), 4)
}

func TestMatchingSkillItems_FallbackWhenNothingMatches(t *testing.T) {
	match := composeMatch()
	posting := &types.JobPosting{
		Title:       "Gardener",
		Company:     "Greenhouse SA",
		Description: "Entretien des espaces verts.",
	}

	items := matchingSkillItems(match, posting, 4)

	require.NotEmpty(t, items)
	assert.Equal(t, []string{"Python", "SQL", "GCP", "Docker"}, items)
}

func TestCompanyKind(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "startup", text: "Jeune startup parisienne.", want: "startup"},
		{name: "seed stage", text: "We just raised our seed round.", want: "startup"},
		{name: "scale-up", text: "Scaleup internationale.", want: "scale-up"},
		{name: "series b", text: "Après notre série B, l'équipe grandit.", want: "scale-up"},
		{name: "default", text: "Grand groupe industriel.", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posting := &types.JobPosting{Title: "Poste", Description: tt.text}
			assert.Equal(t, tt.want, companyKind(posting))
		})
	}
}

func TestToneFor(t *testing.T) {
	assert.Equal(t, ToneCasual, toneFor("startup"))
	assert.Equal(t, ToneCasual, toneFor("scale-up"))
	assert.Equal(t, ToneFormal, toneFor(""))
	assert.Equal(t, ToneFormal, toneFor("corporate"))
}

func TestCoverParagraphsSkipEmpty(t *testing.T) {
	draft := &types.CoverDraft{Hook: "a", Us: "b"}

	assert.Equal(t, []string{"a", "b"}, draft.Paragraphs())
}

func TestStackMentionsCapped(t *testing.T) {
	match := &types.MatchResult{MatchedKeywords: []string{"a", "b", "c", "d", "e", "f"}}

	stack := stackMentions(match)

	assert.Equal(t, []string{"A", "B", "C", "D"}, stack)
	assert.False(t, strings.Contains(strings.Join(stack, ","), "E"))
}

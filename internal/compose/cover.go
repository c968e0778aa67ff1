package compose

import (
	"fmt"
	"strings"

	"github.com/mathieu/apply-pilot/internal/types"
)

const (
	// ToneCasual is used for startups and scale-ups, ToneFormal for
	// everything else.
	ToneCasual = "casual"
	ToneFormal = "formal"

	maxStackMentions = 4
	maxSkillMentions = 4
)

type coverPhrases struct {
	hookWithExperience string // role, org
	hookDefault        string
	startupIntro       string // company
	scaleupIntro       string // company
	missionCaught      string // company
	appreciate         string
	yourStack          string // joined stack list
	challenges         string
	asWellAs           string
	currently          string // role, org, expertise list
	previousExp        string // role, org
	joiningTeam        string // title, skills, qualities
	defaultQualities   string
	closingFormal      string
	closingCasual      string
}

var coverPhrasesByLang = map[string]coverPhrases{
	"fr": {
		hookWithExperience: "Fort de mon expérience en tant que %s chez %s, je suis convaincu de pouvoir apporter une réelle valeur ajoutée à votre équipe.",
		hookDefault:        "Passionné par la data et son potentiel de transformation, je souhaite aujourd'hui mettre mes compétences au service de votre entreprise.",
		startupIntro:       "En tant que startup innovante, %s offre un environnement propice à la prise d'initiative et à l'impact direct",
		scaleupIntro:       "%s, en pleine phase de croissance, représente exactement le type d'environnement dynamique où je souhaite évoluer",
		missionCaught:      "La mission de %s m'a particulièrement interpellé",
		appreciate:         "J'apprécie particulièrement",
		yourStack:          "votre stack technique (%s)",
		challenges:         "les défis ambitieux que vous proposez",
		asWellAs:           "ainsi que",
		currently:          "Actuellement %s chez %s, j'ai développé une expertise approfondie, notamment en %s.",
		previousExp:        "Mon expérience précédente en tant que %s chez %s m'a permis de développer une solide culture de la qualité des données et de la collaboration transverse.",
		joiningTeam:        "Intégrer votre équipe en tant que %s représente pour moi l'opportunité de mettre mes compétences techniques (%s) au service de vos projets. Ma %s seront des atouts pour contribuer efficacement à la réussite de vos missions.",
		defaultQualities:   "rigueur, esprit d'équipe et proactivité",
		closingFormal:      "Dans l'attente de votre réponse, je me tiens à votre disposition pour un entretien. Je vous prie d'agréer, Madame, Monsieur, l'expression de mes salutations distinguées.",
		closingCasual:      "Je serais ravi d'échanger avec vous lors d'un entretien pour vous présenter plus en détail mon parcours et mes motivations. Dans cette attente, je vous adresse mes meilleures salutations.",
	},
	"en": {
		hookWithExperience: "With my experience as %s at %s, I am confident I can bring real added value to your team.",
		hookDefault:        "Passionate about data and its transformative potential, I am eager to contribute my skills to your organization.",
		startupIntro:       "As an innovative startup, %s offers an environment conducive to initiative and direct impact",
		scaleupIntro:       "%s, in full growth phase, represents exactly the kind of dynamic environment where I want to evolve",
		missionCaught:      "The mission of %s particularly caught my attention",
		appreciate:         "I particularly appreciate",
		yourStack:          "your tech stack (%s)",
		challenges:         "the ambitious challenges you offer",
		asWellAs:           "as well as",
		currently:          "Currently %s at %s, I have developed deep expertise, particularly in %s.",
		previousExp:        "My previous experience as %s at %s enabled me to build a strong foundation in data quality and cross-functional collaboration.",
		joiningTeam:        "Joining your team as a %s represents an opportunity for me to apply my technical skills (%s) to support your projects. My %s will be valuable assets to contribute effectively to your mission's success.",
		defaultQualities:   "rigor, teamwork and proactivity",
		closingFormal:      "I look forward to your response and remain at your disposal for an interview. Please accept my best regards.",
		closingCasual:      "I would be delighted to discuss my background and motivations with you in an interview. Looking forward to hearing from you. Best regards.",
	},
}

var (
	startupTriggers = []string{"startup", "early stage", "seed", "série a"}
	scaleupTriggers = []string{"scale-up", "scaleup", "série b", "série c", "hyper-croissance", "forte croissance"}
)

func buildCover(posting *types.JobPosting, match *types.MatchResult) types.CoverDraft {
	lang := normalizeLang(posting.Language)
	phrases := coverPhrasesByLang[lang]
	kind := companyKind(posting)
	tone := toneFor(kind)

	draft := types.CoverDraft{
		Tone:     tone,
		Language: lang,
	}
	draft.Hook = hookParagraph(phrases, match, lang)
	draft.Company = companyParagraph(phrases, posting, match, kind)
	draft.Me = meParagraph(phrases, posting, match, lang)
	draft.Us = usParagraph(phrases, posting, match)
	if tone == ToneCasual {
		draft.Closing = phrases.closingCasual
	} else {
		draft.Closing = phrases.closingFormal
	}
	return draft
}

// companyKind classifies the employer from posting wording.
func companyKind(posting *types.JobPosting) string {
	text := strings.ToLower(posting.Title + "\n" + posting.Description)
	for _, w := range startupTriggers {
		if strings.Contains(text, w) {
			return "startup"
		}
	}
	for _, w := range scaleupTriggers {
		if strings.Contains(text, w) {
			return "scale-up"
		}
	}
	return ""
}

func toneFor(kind string) string {
	if kind == "startup" || kind == "scale-up" {
		return ToneCasual
	}
	return ToneFormal
}

func hookParagraph(phrases coverPhrases, match *types.MatchResult, lang string) string {
	if len(match.SelectedExperiences) > 0 {
		exp := match.SelectedExperiences[0].Experience
		role := exp.LocalizedRole(lang)
		if role != "" && exp.Org != "" {
			return fmt.Sprintf(phrases.hookWithExperience, role, exp.Org)
		}
	}
	return phrases.hookDefault
}

func companyParagraph(phrases coverPhrases, posting *types.JobPosting, match *types.MatchResult, kind string) string {
	var intro string
	switch kind {
	case "startup":
		intro = fmt.Sprintf(phrases.startupIntro, posting.Company)
	case "scale-up":
		intro = fmt.Sprintf(phrases.scaleupIntro, posting.Company)
	default:
		intro = fmt.Sprintf(phrases.missionCaught, posting.Company)
	}

	var mentions []string
	if stack := stackMentions(match); len(stack) > 0 {
		mentions = append(mentions, fmt.Sprintf(phrases.yourStack, strings.Join(stack, ", ")))
	}
	if mentionsChallenges(posting) {
		mentions = append(mentions, phrases.challenges)
	}

	switch len(mentions) {
	case 0:
		return intro + "."
	case 1:
		return fmt.Sprintf("%s. %s %s.", intro, phrases.appreciate, mentions[0])
	default:
		return fmt.Sprintf("%s. %s %s, %s %s.", intro, phrases.appreciate, mentions[0], phrases.asWellAs, mentions[1])
	}
}

// stackMentions returns the shared technologies worth naming back to the
// employer, uppercased the way the posting's own stack lists read.
func stackMentions(match *types.MatchResult) []string {
	out := make([]string, 0, maxStackMentions)
	for _, k := range match.MatchedKeywords {
		out = append(out, strings.ToUpper(k))
		if len(out) == maxStackMentions {
			break
		}
	}
	return out
}

func mentionsChallenges(posting *types.JobPosting) bool {
	text := strings.ToLower(posting.Description)
	for _, w := range []string{"challenge", "défi", "croissance", "industrialis"} {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func meParagraph(phrases coverPhrases, posting *types.JobPosting, match *types.MatchResult, lang string) string {
	if len(match.SelectedExperiences) == 0 {
		return ""
	}

	expertise := matchingSkillItems(match, posting, maxSkillMentions)
	main := match.SelectedExperiences[0].Experience
	parts := []string{fmt.Sprintf(phrases.currently, main.LocalizedRole(lang), main.Org, strings.Join(expertise, ", "))}

	if len(match.SelectedExperiences) > 1 {
		second := match.SelectedExperiences[1].Experience
		parts = append(parts, fmt.Sprintf(phrases.previousExp, second.LocalizedRole(lang), second.Org))
	}
	return strings.Join(parts, " ")
}

func usParagraph(phrases coverPhrases, posting *types.JobPosting, match *types.MatchResult) string {
	skills := matchingSkillItems(match, posting, maxSkillMentions)
	return fmt.Sprintf(phrases.joiningTeam, posting.Title, strings.Join(skills, ", "), phrases.defaultQualities)
}

// matchingSkillItems walks the selected skill groups in relevance order and
// collects items the posting actually asks for: exact keyword matches,
// items named in the description, or items containing a keyword. When
// nothing matches it falls back to the leading items of the top groups so
// the letter never names an empty stack.
func matchingSkillItems(match *types.MatchResult, posting *types.JobPosting, max int) []string {
	keywordSet := posting.KeywordSet()
	desc := strings.ToLower(posting.Description)

	out := make([]string, 0, max)
	seen := make(map[string]bool)
	add := func(item string) bool {
		il := strings.ToLower(item)
		if seen[il] {
			return len(out) >= max
		}
		seen[il] = true
		out = append(out, item)
		return len(out) >= max
	}

	for _, group := range match.SelectedSkills {
		for _, item := range group.Group.Items {
			il := strings.ToLower(item)
			relevant := keywordSet[il] || (il != "" && strings.Contains(desc, il)) || keywordInsideItem(il, keywordSet)
			if relevant && add(item) {
				return out
			}
		}
	}

	if len(out) == 0 {
		for gi, group := range match.SelectedSkills {
			if gi == 3 {
				break
			}
			for ii, item := range group.Group.Items {
				if ii == 2 {
					break
				}
				if add(item) {
					return out
				}
			}
		}
	}
	return out
}

func keywordInsideItem(itemLower string, keywordSet map[string]bool) bool {
	for k := range keywordSet {
		if len(k) > 2 && strings.Contains(itemLower, k) {
			return true
		}
	}
	return false
}

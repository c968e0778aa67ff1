// Package rendering turns document drafts into LaTeX sources ready for
// compilation. Templates are embedded and use << >> delimiters so the
// documents' own braces never collide with template actions.
package rendering

import (
	"embed"
	"strings"
	"text/template"

	"github.com/mathieu/apply-pilot/internal/types"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var templates = template.Must(template.New("latex").
	Delims("<<", ">>").
	Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
		"join":   strings.Join,
	}).
	ParseFS(templateFiles, "templates/*.tmpl"))

// languagePack carries the fixed wording of a document language: the babel
// package name, CV section titles and the cover letter frame phrases.
type languagePack struct {
	Babel          string
	Experiences    string
	Skills         string
	Projects       string
	Certifications string
	Recruitment    string
	MadeAt         string
	OnDate         string
	Subject        string
	ApplicationFor string
	Greeting       string
	TodayIntro     string
	AsPosition     string
}

var languagePacks = map[string]languagePack{
	"fr": {
		Babel:          "french",
		Experiences:    "EXPÉRIENCES",
		Skills:         "COMPÉTENCES",
		Projects:       "PROJETS PERSONNELS",
		Certifications: "CERTIFICATIONS",
		Recruitment:    "Service Recrutement",
		MadeAt:         "Fait à",
		OnDate:         "le",
		Subject:        "Objet :",
		ApplicationFor: "Candidature au poste de",
		Greeting:       "Madame, Monsieur,",
		TodayIntro:     "Aujourd'hui, je souhaite mettre mes compétences au service de",
		AsPosition:     "en tant que",
	},
	"en": {
		Babel:          "english",
		Experiences:    "EXPERIENCE",
		Skills:         "SKILLS",
		Projects:       "PERSONAL PROJECTS",
		Certifications: "CERTIFICATIONS",
		Recruitment:    "Recruitment Department",
		MadeAt:         "Written in",
		OnDate:         "on",
		Subject:        "Subject:",
		ApplicationFor: "Application for the position of",
		Greeting:       "Dear Hiring Manager,",
		TodayIntro:     "Today, I would like to bring my skills to",
		AsPosition:     "as a",
	},
}

func packFor(lang string) languagePack {
	if pack, ok := languagePacks[lang]; ok {
		return pack
	}
	return languagePacks["fr"]
}

type cvTemplateData struct {
	Babel          string
	Name           string
	DisplayTitle   string
	Email          string
	Phone          string
	Location       string
	Summary        string
	Labels         languagePack
	Skills         []types.SkillSection
	Experiences    []types.ExperienceSection
	Projects       []types.ProjectSection
	Certifications []string
}

type coverTemplateData struct {
	Babel          string
	Name           string
	Email          string
	Phone          string
	SenderLocation string
	Company        string
	JobTitle       string
	JobLocation    string
	Hook           string
	Body           []string
	Closing        string
	Labels         languagePack
}

// RenderCV renders the CV draft into a standalone LaTeX document.
func RenderCV(identity types.Identity, draft *types.CVDraft) (string, error) {
	pack := packFor(draft.Language)
	data := cvTemplateData{
		Babel:          pack.Babel,
		Name:           identity.Name,
		DisplayTitle:   draft.DisplayTitle,
		Email:          identity.Email,
		Phone:          identity.Phone,
		Location:       identity.Location,
		Summary:        draft.Summary,
		Labels:         pack,
		Skills:         draft.Skills,
		Experiences:    draft.Experiences,
		Projects:       draft.Projects,
		Certifications: draft.Certifications,
	}

	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, "cv.tex.tmpl", data); err != nil {
		return "", &TemplateError{Document: "cv", Cause: err}
	}
	return buf.String(), nil
}

// RenderCover renders the cover letter draft into a standalone LaTeX
// document. The hook paragraph is completed with the application sentence
// naming the company and position; empty body paragraphs are skipped.
func RenderCover(identity types.Identity, posting *types.JobPosting, draft *types.CoverDraft) (string, error) {
	pack := packFor(draft.Language)

	jobLocation := posting.Location
	if jobLocation == "" {
		jobLocation = identity.Location
	}

	body := make([]string, 0, 3)
	for _, p := range []string{draft.Company, draft.Me, draft.Us} {
		if p != "" {
			body = append(body, p)
		}
	}

	data := coverTemplateData{
		Babel:          pack.Babel,
		Name:           identity.Name,
		Email:          identity.Email,
		Phone:          identity.Phone,
		SenderLocation: identity.Location,
		Company:        posting.Company,
		JobTitle:       posting.Title,
		JobLocation:    jobLocation,
		Hook:           draft.Hook,
		Body:           body,
		Closing:        draft.Closing,
		Labels:         pack,
	}

	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, "cover.tex.tmpl", data); err != nil {
		return "", &TemplateError{Document: "cover", Cause: err}
	}
	return buf.String(), nil
}

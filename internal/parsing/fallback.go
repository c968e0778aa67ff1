package parsing

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mathieu/apply-pilot/internal/fetch"
	"github.com/mathieu/apply-pilot/internal/ingestion"
	"github.com/mathieu/apply-pilot/internal/types"
)

var (
	wttjJobPath = regexp.MustCompile(`/companies/([^/]+)/jobs/([^/?#]+)`)
	// Trailing id segment on job slugs, like _THALE_DxLJy4A.
	wttjSlugID = regexp.MustCompile(`_[A-Z]{2,}_[A-Za-z0-9]+$`)
)

// fallbackPosting assembles a posting from the URL structure and page
// metadata alone. Board URLs encode the company and often the title, and
// page titles follow a "Title - Company" convention, so a usable posting
// can usually be recovered even when model extraction produced nothing.
func fallbackPosting(content *ingestion.Content, sourceURL string) *types.JobPosting {
	posting := &types.JobPosting{
		URL:         sourceURL,
		Description: content.Text,
	}

	switch fetch.DetectPlatform(sourceURL) {
	case fetch.PlatformWTTJ:
		fillFromWTTJURL(posting, sourceURL)
	case fetch.PlatformGreenhouse, fetch.PlatformLever:
		fillFromATSURL(posting, sourceURL)
	}

	if content.Meta != nil {
		fillFromPageMeta(posting, content.Meta)
	}
	return posting
}

// fillFromWTTJURL decodes /companies/{company}/jobs/{title-slug}_{city}_{ID}
// paths.
func fillFromWTTJURL(posting *types.JobPosting, sourceURL string) {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return
	}
	m := wttjJobPath.FindStringSubmatch(u.Path)
	if m == nil {
		return
	}

	posting.Company = humanizeSlug(m[1])

	slug := wttjSlugID.ReplaceAllString(m[2], "")
	parts := strings.Split(slug, "_")
	if parts[0] != "" {
		posting.Title = CleanTitle(humanizeSlug(parts[0]))
	}
	if len(parts) >= 2 && parts[len(parts)-1] != "" {
		posting.Location = humanizeSlug(parts[len(parts)-1])
	}
}

// fillFromATSURL decodes the company slug from paths like
// boards.greenhouse.io/{company}/jobs/{id} and jobs.lever.co/{company}/{id}.
func fillFromATSURL(posting *types.JobPosting, sourceURL string) {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) > 0 && parts[0] != "" {
		posting.Company = humanizeSlug(parts[0])
	}
}

// fillFromPageMeta fills still-empty fields from the page title and
// og:site_name. Page titles conventionally read "Title - Company" or
// "Title | Company".
func fillFromPageMeta(posting *types.JobPosting, meta *ingestion.Metadata) {
	segments := splitPageTitle(meta.PageTitle)

	if posting.Title == "" && len(segments) > 0 {
		posting.Title = CleanTitle(segments[0])
	}
	if posting.Company == "" {
		switch {
		case meta.SiteName != "":
			posting.Company = collapseSpaces(meta.SiteName)
		case len(segments) >= 2:
			posting.Company = collapseSpaces(segments[1])
		}
	}
}

func splitPageTitle(pageTitle string) []string {
	pageTitle = strings.TrimSpace(pageTitle)
	if pageTitle == "" {
		return nil
	}
	for _, sep := range []string{" - ", " – ", " — ", " | "} {
		if strings.Contains(pageTitle, sep) {
			return strings.Split(pageTitle, sep)
		}
	}
	return []string{pageTitle}
}

func humanizeSlug(slug string) string {
	// Casers are stateful, so build one per call rather than sharing.
	return cases.Title(language.Und).String(strings.ReplaceAll(slug, "-", " "))
}

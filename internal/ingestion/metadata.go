package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Metadata contains metadata about an ingested job posting page
type Metadata struct {
	URL        string `json:"url,omitempty"`
	Timestamp  string `json:"timestamp"`           // RFC3339 format
	Hash       string `json:"hash"`                // SHA256 hex digest of the cleaned text
	Platform   string `json:"platform,omitempty"`  // Detected job board platform
	PageTitle  string `json:"page_title,omitempty"`
	SiteName   string `json:"site_name,omitempty"`   // og:site_name, a company hint
	LogoURL    string `json:"logo_url,omitempty"`    // og:image or site icon
	ThemeColor string `json:"theme_color,omitempty"` // meta theme-color, for dashboard accents
	LangHint   string `json:"lang_hint,omitempty"`   // html lang attribute, if any
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}

// FillPageMeta extracts page-level hints (title, site name, logo, language)
// from raw HTML into the metadata. Parse failures leave the fields empty.
func (m *Metadata) FillPageMeta(html string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	m.PageTitle = strings.TrimSpace(doc.Find("title").First().Text())

	if name, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		m.SiteName = strings.TrimSpace(name)
	}

	m.LogoURL = extractLogoURL(doc)

	if color, ok := doc.Find(`meta[name="theme-color"]`).Attr("content"); ok {
		m.ThemeColor = strings.TrimSpace(color)
	}

	if lang, ok := doc.Find("html").Attr("lang"); ok {
		// "fr-FR" -> "fr"
		if idx := strings.IndexAny(lang, "-_"); idx > 0 {
			lang = lang[:idx]
		}
		m.LangHint = strings.ToLower(strings.TrimSpace(lang))
	}
}

// extractLogoURL picks the best candidate for a company logo, preferring
// social preview images over favicons.
func extractLogoURL(doc *goquery.Document) string {
	if img, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && strings.TrimSpace(img) != "" {
		return strings.TrimSpace(img)
	}

	for _, sel := range []string{
		`link[rel="apple-touch-icon"]`,
		`link[rel="icon"]`,
		`link[rel="shortcut icon"]`,
	} {
		if href, ok := doc.Find(sel).Attr("href"); ok && strings.TrimSpace(href) != "" {
			return strings.TrimSpace(href)
		}
	}

	return ""
}

package chunker

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// ContactLabel is assigned to a leading unlabelled block that looks like
// contact details.
const ContactLabel = "Contact"

// DefaultHeaders is the section header vocabulary found in resumes, reports
// and papers. Matching is case-insensitive against whole lines.
var DefaultHeaders = []string{
	"objective", "summary", "skills", "certifications", "courses",
	"achievements", "education", "experience", "projects",
	"work experience", "professional experience", "technical skills",
	"publications", "awards", "interests", "hobbies", "references",
	"contact", "about", "introduction", "background", "methodology",
	"results", "conclusion", "abstract", "overview",
}

// ContactDetector reports whether a leading unlabelled block is contact
// information.
type ContactDetector func(body string) bool

var (
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
	emailPattern    = regexp.MustCompile(`[\pL\pN_.+-]+@[\pL\pN_-]+\.[\pL\pN_.]+`)
	phonePattern    = regexp.MustCompile(`\+?\p{Nd}[\p{Nd}\s\-]{7,}`)
)

// LooksLikeContact matches an email address or a phone-like digit run.
// It is the default ContactDetector.
func LooksLikeContact(body string) bool {
	return emailPattern.MatchString(body) || phonePattern.MatchString(body)
}

// SectionDetector partitions text into labelled sections.
type SectionDetector struct {
	headers map[string]struct{}
	contact ContactDetector
}

// NewSectionDetector builds a detector for the given header vocabulary.
// A nil contact detector disables the Contact relabelling.
func NewSectionDetector(headers []string, contact ContactDetector) *SectionDetector {
	set := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			set[h] = struct{}{}
		}
	}
	return &SectionDetector{headers: set, contact: contact}
}

// DetectSections splits text using DefaultHeaders and LooksLikeContact.
func DetectSections(text string) []domain.Section {
	return NewSectionDetector(DefaultHeaders, LooksLikeContact).Detect(text)
}

// Detect splits text into sections in document order. A header line closes
// the section before it; the block before the first header has an empty
// label. Sections whose body is blank are dropped and repeated headers
// produce separate sections.
func (d *SectionDetector) Detect(text string) []domain.Section {
	text = blankRunPattern.ReplaceAllString(text, "\n\n")

	var (
		sections []domain.Section
		label    string
		lines    []string
	)
	flush := func() {
		body := strings.TrimSpace(strings.Join(lines, "\n"))
		if body != "" {
			sections = append(sections, domain.Section{Label: label, Body: body})
		}
		lines = lines[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if d.isHeader(stripped) {
			flush()
			label = titleCase(stripped)
			continue
		}
		lines = append(lines, line)
	}
	flush()

	if len(sections) > 0 && sections[0].Label == "" && d.contact != nil && d.contact(sections[0].Body) {
		sections[0].Label = ContactLabel
	}
	return sections
}

func (d *SectionDetector) isHeader(line string) bool {
	if line == "" {
		return false
	}
	_, ok := d.headers[strings.ToLower(line)]
	return ok
}

// titleCase upper-cases the first letter of every word. A Caser is not safe
// for concurrent use, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

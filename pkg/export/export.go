// Package export renders notes as Markdown or plain text files.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

// FallbackTitle names exports of untitled notes.
const FallbackTitle = "noteflow-export"

// Formats.
const (
	FormatMarkdown = "md"
	FormatText     = "txt"
)

// ErrUnknownFormat is returned by Render for anything but md and txt.
var ErrUnknownFormat = errors.New("unknown export format")

type rule struct {
	re   *regexp.Regexp
	repl string
}

// markdownRules run in order; the catch-all tag strip comes last.
var markdownRules = []rule{
	{regexp.MustCompile(`(?i)<br\s*/?>`), "\n"},
	{regexp.MustCompile(`(?i)<h1[^>]*>(.*?)</h1>`), "# $1\n"},
	{regexp.MustCompile(`(?i)<h2[^>]*>(.*?)</h2>`), "## $1\n"},
	{regexp.MustCompile(`(?i)<h3[^>]*>(.*?)</h3>`), "### $1\n"},
	{regexp.MustCompile(`(?i)<(?:strong|b)(?:\s[^>]*)?>(.*?)</(?:strong|b)>`), "**$1**"},
	{regexp.MustCompile(`(?i)<(?:em|i)(?:\s[^>]*)?>(.*?)</(?:em|i)>`), "*$1*"},
	{regexp.MustCompile(`(?i)<u(?:\s[^>]*)?>(.*?)</u>`), "__${1}__"},
	{regexp.MustCompile(`(?i)<s(?:\s[^>]*)?>(.*?)</s>`), "~~$1~~"},
	{regexp.MustCompile(`(?i)<code[^>]*>(.*?)</code>`), "`$1`"},
	{regexp.MustCompile(`(?i)<li[^>]*>(.*?)</li>`), "- $1\n"},
	{regexp.MustCompile(`(?i)<blockquote[^>]*>(.*?)</blockquote>`), "> $1\n"},
	{regexp.MustCompile(`(?i)<a[^>]*href="([^"]*)"[^>]*>(.*?)</a>`), "[$2]($1)"},
	{regexp.MustCompile(`<[^>]*>`), ""},
}

var entities = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&nbsp;", " ")

// Title returns the note title or FallbackTitle.
func Title(n core.Note) string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	return FallbackTitle
}

// MarkdownBody converts the HTML body to Markdown.
func MarkdownBody(html string) string {
	for _, r := range markdownRules {
		html = r.re.ReplaceAllString(html, r.repl)
	}
	return strings.TrimSpace(entities.Replace(html))
}

// PlainBody strips all markup from the HTML body.
func PlainBody(html string) string {
	return entities.Replace(core.StripHTML(html))
}

type frontmatter struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Tags  []string `yaml:"tags"`
}

// Markdown renders n with YAML frontmatter.
func Markdown(n core.Note) (string, error) {
	title := Title(n)
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	fm, err := yaml.Marshal(frontmatter{
		Title: title,
		Date:  time.UnixMilli(n.CreatedAt).UTC().Format("2006-01-02T15:04:05.000Z"),
		Tags:  tags,
	})
	if err != nil {
		return "", fmt.Errorf("frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n# ")
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(MarkdownBody(n.Body))
	return b.String(), nil
}

const dateLayout = "2006-01-02 15:04"

// Text renders n as plain text with a header block. Dates are UTC.
func Text(n core.Note) string {
	title := Title(n)
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", len([]rune(title))))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Created: %s\n", time.UnixMilli(n.CreatedAt).UTC().Format(dateLayout))
	fmt.Fprintf(&b, "Updated: %s\n", time.UnixMilli(n.UpdatedAt).UTC().Format(dateLayout))
	fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(n.Tags, ", "))
	b.WriteString(PlainBody(n.Body))
	return b.String()
}

// Render dispatches on format.
func Render(n core.Note, format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatMarkdown:
		return Markdown(n)
	case FormatText:
		return Text(n), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Filename derives a safe file name from the title: every rune outside
// ASCII letters, digits and the Thai block becomes an underscore.
func Filename(n core.Note, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case unicode.Is(unicode.Thai, r):
			return r
		default:
			return '_'
		}
	}, Title(n))
	return name + "." + ext
}

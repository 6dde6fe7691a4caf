// Package content turns raw input files into the plain text the rule engine
// checks. HTML is flattened with the same regex-based stripping the review
// tooling has always used; fetching remote pages is out of scope here.
package content

import (
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Document is one piece of content queued for a QA run.
type Document struct {
	Name string
	Path string
	Text string
}

var (
	reScript     = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyle      = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	reComment    = regexp.MustCompile(`(?s)<!--.*?-->`)
	reBlockClose = regexp.MustCompile(`(?i)</(p|div|li|h[1-6]|tr|section|article|header|footer)>|<br\s*/?>`)
	reTag        = regexp.MustCompile(`<[^>]*>`)
	reBlankRuns  = regexp.MustCompile(`\n{3,}`)
	reSpaceRuns  = regexp.MustCompile(`[ \t]{2,}`)
)

// StripHTML flattens markup into plain text: scripts, styles and comments are
// dropped, block boundaries become newlines, entities are unescaped.
func StripHTML(s string) string {
	s = reScript.ReplaceAllString(s, " ")
	s = reStyle.ReplaceAllString(s, " ")
	s = reComment.ReplaceAllString(s, " ")
	s = reBlockClose.ReplaceAllString(s, "\n")
	s = reTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return Normalize(s)
}

// Normalize collapses runs of whitespace while preserving paragraph breaks.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(reSpaceRuns.ReplaceAllString(l, " "))
	}
	s = strings.Join(lines, "\n")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// LoadFile reads one file, stripping markup for .html/.htm inputs.
func LoadFile(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	text := string(b)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text = StripHTML(text)
	default:
		text = Normalize(text)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Document{Name: name, Path: path, Text: text}, nil
}

// LoadDir walks a directory for checkable files (.txt, .md, .html, .htm) and
// loads each one. Unreadable files are skipped.
func LoadDir(root string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".txt", ".md", ".html", ".htm":
		default:
			return nil
		}
		doc, lerr := LoadFile(p)
		if lerr != nil {
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	return docs, err
}

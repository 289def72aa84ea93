package reconcile

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/version"
)

// redirectPage renders the latest-pointer artifact: a static page that
// forwards one level up into the latest version directory.
func redirectPage(latest version.Label) string {
	target := "../" + latest.String() + "/"
	escaped := html.EscapeString(target)
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<meta http-equiv=\"refresh\" content=\"0; url=%s\">\n", escaped)
	fmt.Fprintf(&b, "<link rel=\"canonical\" href=%q>\n", target)
	fmt.Fprintf(&b, "<title>Redirecting to %s</title>\n", html.EscapeString(latest.String()))
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<p>Redirecting to <a href=%q>%s</a>.</p>\n", target, html.EscapeString(latest.String()))
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// landingPage synthesizes the root index: a markdown version listing in
// descending order, rendered to HTML. Callers pass labels already sorted.
func landingPage(title string, labels []version.Label) (string, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n## Versions\n\n", title)
	for _, label := range labels {
		fmt.Fprintf(&md, "- [%s](%s/)\n", label, label)
	}

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &body); err != nil {
		return "", errors.ReconcileError("failed to render landing page").
			WithCause(err).
			Build()
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpublish/internal/version"
)

func TestRedirectPageTargetsVersionDirectory(t *testing.T) {
	page := redirectPage(mustLabel(t, "v1.2.0"))

	assert.Contains(t, page, `content="0; url=../v1.2.0/"`)
	assert.Contains(t, page, `<link rel="canonical" href="../v1.2.0/">`)
	assert.Contains(t, page, "Redirecting to v1.2.0")
}

func TestLandingPageRendersMarkdownListing(t *testing.T) {
	labels := []version.Label{
		mustLabel(t, "v2.0.0-rc.1"),
		mustLabel(t, "v1.2.0"),
		mustLabel(t, "v1.0.0"),
	}

	page, err := landingPage("API Docs", labels)
	require.NoError(t, err)

	assert.Contains(t, page, "<title>API Docs</title>")
	assert.Contains(t, page, "API Docs</h1>")
	assert.Contains(t, page, `<a href="v2.0.0-rc.1/">v2.0.0-rc.1</a>`)
	assert.Contains(t, page, `<a href="v1.2.0/">v1.2.0</a>`)
	assert.Contains(t, page, `<a href="v1.0.0/">v1.0.0</a>`)
}

package welfare

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const faviconService = "https://www.google.com/s2/favicons"

// Favicon is the company badge: a favicon URL when the company has an
// official site, and an initial-letter fallback in the brand color.
type Favicon struct {
	URL     string `json:"url,omitempty"`
	Domain  string `json:"domain,omitempty"`
	Initial string `json:"initial"`
	Color   string `json:"color"`
}

// NewFavicon derives the badge of a company. Nothing is fetched.
func NewFavicon(co *Company) Favicon {
	f := Favicon{
		Initial: initial(co.Name),
		Color:   brandColor(co),
	}
	if co.OfficialURL == "" {
		return f
	}
	u, err := url.Parse(co.OfficialURL)
	if err != nil || u.Hostname() == "" {
		return f
	}
	f.Domain = u.Hostname()
	q := url.Values{}
	q.Set("domain", f.Domain)
	q.Set("sz", "64")
	f.URL = faviconService + "?" + q.Encode()
	return f
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}

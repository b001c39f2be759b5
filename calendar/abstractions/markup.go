package abstractions

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the origin relative speaker photos are resolved against.
const DefaultBaseURL = "http://abstractions.io"

const (
	selSession     = "div.session-modal"
	selTitle       = "h1.title"
	selStartTime   = "span.start-time"
	selEndTime     = "span.end-time"
	selSpeaker     = "p.speaker"
	selBio         = "div.bio:not(.no-image)"
	selBioNoImage  = "div.bio.no-image"
	selPhoto       = "img"
	selInformation = "div.information"
	selTime        = "p.time"
)

const (
	aboutTheSpeaker = "About the speaker:"
	photoSentinel   = "null"
)

func daySelector(day string) string {
	return fmt.Sprintf("div[id=%q]", day)
}

func parseBaseURL(base string) (*url.URL, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("unable to parse base URI: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URI must be absolute: %s", base)
	}
	return u, nil
}

// photoURL resolves src against base. A nil base keeps src as it appears in the page.
func photoURL(base *url.URL, src string) (string, error) {
	src = strings.TrimSpace(src)
	if base == nil {
		return src, nil
	}
	rel, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("unable to parse photo URI %q: %w", src, err)
	}
	return base.ResolveReference(rel).String(), nil
}

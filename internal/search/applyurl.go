package search

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	directApplyFields  = []string{"apply_link", "apply_url", "application_url"}
	listingLinkFields  = []string{"job_link", "redirect_link", "share_link", "link", "url"}
	applyOptionsFields = []string{"apply_options", "apply_links"}
)

// ResolveApplyURL picks the best application link from a raw provider item. Direct
// application links win over generic listing links, which win over related links and
// URLs embedded in extensions. Only absolute http(s) URLs are returned.
func ResolveApplyURL(item gjson.Result) string {
	for _, field := range directApplyFields {
		if link := linkFrom(item.Get(field)); link != "" {
			return link
		}
	}

	for _, field := range applyOptionsFields {
		if link := linkFrom(item.Get(field)); link != "" {
			return link
		}
	}

	for _, field := range listingLinkFields {
		if link := linkFrom(item.Get(field)); link != "" {
			return link
		}
	}

	if link := preferApplyLink(item.Get("related_links")); link != "" {
		return link
	}

	for _, ext := range item.Get("extensions").Array() {
		for _, token := range strings.Fields(ext.String()) {
			if isHTTPURL(token) {
				return token
			}
		}
	}

	return ""
}

// linkFrom accepts a URL string, an object carrying "link"/"url", or a list of either
func linkFrom(v gjson.Result) string {
	switch {
	case !v.Exists():
		return ""
	case v.Type == gjson.String:
		if s := strings.TrimSpace(v.String()); isHTTPURL(s) {
			return s
		}
	case v.IsArray():
		for _, elem := range v.Array() {
			if link := linkFrom(elem); link != "" {
				return link
			}
		}
	case v.IsObject():
		for _, key := range []string{"link", "url", "href"} {
			if link := linkFrom(v.Get(key)); link != "" {
				return link
			}
		}
	}
	return ""
}

// preferApplyLink returns a related link whose label mentions applying, else the first usable one
func preferApplyLink(v gjson.Result) string {
	var first string
	for _, elem := range v.Array() {
		link := linkFrom(elem)
		if link == "" {
			continue
		}
		if strings.Contains(strings.ToLower(elem.Get("text").String()), "apply") {
			return link
		}
		if first == "" {
			first = link
		}
	}
	return first
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

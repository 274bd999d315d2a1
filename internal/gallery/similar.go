package gallery

import (
	"regexp"
	"strings"
)

// markerPatterns strip release markers before titles are compared: format
// tags, soundtrack qualifiers, remix/edit suffixes, bare years and
// part/volume numbering, in both "- marker" and "(marker)" forms.
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*(dvd|blu-ray|cd|vinyl|digital|4k\s*uhd|uhd|hd|vhs|laserdisc|cassette|streaming)\s*(version|edition|release|set|box|rip)?\b`),
	regexp.MustCompile(`(?i)\s*\((dvd|blu-ray|cd|vinyl|digital|4k\s*uhd|uhd|hd|vhs|laserdisc|cassette|streaming)\s*(version|edition|release|set|box|rip)?\)\b`),
	regexp.MustCompile(`(?i)\s*-\s*(album|single|ep|ost|soundtrack|original\s*motion\s*picture\s*soundtrack|motion\s*picture\s*soundtrack|original\s*soundtrack|score|compilation|anthology|collection)\s*(version|mix|edit)?\b`),
	regexp.MustCompile(`(?i)\s*\((album|single|ep|ost|soundtrack|original\s*motion\s*picture\s*soundtrack|motion\s*picture\s*soundtrack|original\s*soundtrack|score|compilation|anthology|collection)\s*(version|mix|edit)?\)\b`),
	regexp.MustCompile(`(?i)\s*-\s*(radio\s*edit|extended\s*(mix|version)|club\s*mix|dub\s*mix|remix|edit|live|acoustic|instrumental|demo|bonus\s*track|explicit|clean|oscar|anniversary\s*edition|deluxe\s*(edition)?|expanded\s*(edition)?|special\s*(edition)?|limited\s*(edition)?|collectors?\s*edition|remastered(\s*\d{4})?|final\s*cut|directors?\s*cut|unrated|uncut|original\s*version|alternate\s*take|mono|stereo|acapella|official\s*(video|audio)?|lyric\s*video|music\s*video|trailer|teaser|preview|promo|featurette|commentary|interview|behind\s*the\s*scenes)\s*(\(\d{4}\))?\b`),
	regexp.MustCompile(`(?i)\s*\((radio\s*edit|extended\s*(mix|version)|club\s*mix|dub\s*mix|remix|edit|live|acoustic|instrumental|demo|bonus\s*track|explicit|clean|oscar|anniversary\s*edition|deluxe\s*(edition)?|expanded\s*(edition)?|special\s*(edition)?|limited\s*(edition)?|collectors?\s*edition|remastered(\s*\d{4})?|final\s*cut|directors?\s*cut|unrated|uncut|original\s*version|alternate\s*take|mono|stereo|acapella|official\s*(video|audio)?|lyric\s*video|music\s*video|trailer|teaser|preview|promo|featurette|commentary|interview|behind\s*the\s*scenes)\s*(\(\d{4}\))?\)\b`),
	regexp.MustCompile(`(?i)\s*\(\s*\d{4}\s*([a-z\s*]*)?\)\s*`),
	regexp.MustCompile(`(?i)\s*-\s*\d{4}(\s*-\s*\d{2,4})?\b`),
	regexp.MustCompile(`\s*\[\s*\d{4}\s*\]`),
	regexp.MustCompile(`(?i)\s*\(?(pt\.|part|vol\.|volume)\s*\d+\)?\b`),
	regexp.MustCompile(`\s*\[[^\]]+\]`),
}

var (
	punctuationRun = regexp.MustCompile(`[¿¡«»“„”"':;,.?!*+=&^$#@<>|/\\]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	leadingArticle = regexp.MustCompile(`(?i)^(a|an|the)\s+`)
)

// normalizeTitle reduces a title to its comparable core: lowercase, marker
// suffixes removed, punctuation and hyphens flattened to spaces, leading
// article dropped.
func normalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range markerPatterns {
		s = p.ReplaceAllString(s, "")
	}
	s = punctuationRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	s = strings.TrimSpace(leadingArticle.ReplaceAllString(s, ""))
	return s
}

// AreTitlesSimilar reports whether two titles refer to the same work. Empty
// titles only match each other. After normalization, equal titles match, as
// do titles of at least four characters where one is a prefix of the other.
func AreTitlesSimilar(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	na, nb := normalizeTitle(a), normalizeTitle(b)
	if na == "" || nb == "" {
		return na == nb
	}
	if na == nb {
		return true
	}
	if len(na) >= similarMinPrefixLen && len(nb) >= similarMinPrefixLen {
		return strings.HasPrefix(na, nb) || strings.HasPrefix(nb, na)
	}
	return false
}

package bulletin

import "regexp"

// Segment is one run of post content: either plain text or a clickable
// external link. Links must be opened without handing the new context a
// reference back to the opener.
type Segment struct {
	Text   string `json:"text"`
	Href   string `json:"href,omitempty"`
	IsLink bool   `json:"is_link"`
}

var linkPattern = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+`)

// SplitLinks breaks content into plain-text and link segments. The visible
// text of a link segment is the matched substring untouched; bare www.
// tokens get an https scheme prepended in the href only.
func SplitLinks(content string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range linkPattern.FindAllStringIndex(content, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: content[last:loc[0]]})
		}
		text := content[loc[0]:loc[1]]
		href := text
		if len(text) < 4 || text[:4] != "http" {
			href = "https://" + text
		}
		segments = append(segments, Segment{Text: text, Href: href, IsLink: true})
		last = loc[1]
	}
	if last < len(content) {
		segments = append(segments, Segment{Text: content[last:]})
	}
	if segments == nil {
		segments = []Segment{{Text: content}}
	}
	return segments
}

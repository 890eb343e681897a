package links

import "regexp"

// linkPattern matches Markdown inline links: [text](ref).
//
// The bracket part rejects nested brackets and the reference part rejects
// parentheses, so a match never spans two links and prose parentheses
// without a leading [text] are ignored. The reference may contain spaces;
// wiki trees routinely hold documents named "Some Page.md".
var linkPattern = regexp.MustCompile(`\[([^\[\]]*)\]\(([^()]+)\)`)

// Link is one extracted Markdown inline link.
type Link struct {
	// Text is the bracketed link text, without the brackets.
	Text string

	// Ref is the parenthesized reference, without the parentheses.
	Ref string
}

// Extract returns every inline link in the document, in order of appearance.
func Extract(content string) []Link {
	matches := linkPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	found := make([]Link, 0, len(matches))
	for _, m := range matches {
		found = append(found, Link{Text: m[1], Ref: m[2]})
	}
	return found
}

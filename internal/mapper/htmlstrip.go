package mapper

import (
	"regexp"
	"strings"
)

// The stripping sequence is order-sensitive: container blocks first,
// then block/list tags to line breaks, then remaining tags, entities,
// and finally whitespace collapsing.
var (
	reContainerBlocks = regexp.MustCompile(`(?is)<(head|script|style)\b.*?</(head|script|style)\s*>`)
	reLineBreakTags   = regexp.MustCompile(`(?i)<\s*(br\s*/?|/p|/div|/li|/tr|/h[1-6]|/ul|/ol|/table)\s*>`)
	reListItemTags    = regexp.MustCompile(`(?i)<\s*li\b[^>]*>`)
	reRemainingTags   = regexp.MustCompile(`<[^>]*>`)
	reSpaceRuns       = regexp.MustCompile(`[ \t]{2,}`)
	reBreakRuns       = regexp.MustCompile(`\n{3,}`)
	reSpacedBreak     = regexp.MustCompile(`[ \t]+\n`)
)

// entityReplacer decodes the fixed set of named character entities the
// server emits in rich-text fields.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#39;", "'",
	"&amp;", "&",
)

// StripRichText converts server rich text (HTML) to plain text suitable
// for a cell. The conversion fails open: on any internal failure the
// original input is returned unmodified rather than corrupted.
func StripRichText(input string) (output string) {
	output = input
	defer func() {
		if recover() != nil {
			output = input
		}
	}()

	s := strings.ReplaceAll(input, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = reContainerBlocks.ReplaceAllString(s, "")
	s = reLineBreakTags.ReplaceAllString(s, "\n")
	s = reListItemTags.ReplaceAllString(s, "\n- ")
	s = reRemainingTags.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)

	// Collapse repeated whitespace iteratively: each pass widens what
	// the previous one may have produced, until the text is stable.
	for {
		collapsed := reSpaceRuns.ReplaceAllString(s, " ")
		collapsed = reSpacedBreak.ReplaceAllString(collapsed, "\n")
		collapsed = reBreakRuns.ReplaceAllString(collapsed, "\n\n")
		if collapsed == s {
			break
		}
		s = collapsed
	}

	return strings.TrimSpace(s)
}

// stripControlChars drops the control characters the server rejects in
// plain string fields. Tabs and line breaks survive.
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

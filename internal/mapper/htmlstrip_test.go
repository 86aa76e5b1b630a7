package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripRichText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain passes through", "already plain", "already plain"},
		{"paragraphs become breaks", "<p>one</p><p>two</p>", "one\ntwo"},
		{"list items become dashes", "<ul><li>first</li><li>second</li></ul>", "- first\n\n- second"},
		{"inline markup dropped", "a <b>bold</b> and <i>italic</i> bit", "a bold and italic bit"},
		{"entities decoded", "x &lt; y &amp;&amp; y &gt; z&nbsp;!", "x < y && y > z !"},
		{"script removed entirely", "<script>alert(1)</script>visible", "visible"},
		{"whitespace collapsed", "a   b\n\n\n\nc", "a b\n\nc"},
		{"crlf normalized", "line1\r\nline2", "line1\nline2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripRichText(tt.in))
		})
	}
}

func TestStripRichTextIdempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello <b>world</b></p><ul><li>a</li><li>b</li></ul>",
		"plain   text with    runs",
		"mixed <br/> breaks\r\nand\rreturns",
	}
	for _, in := range inputs {
		once := StripRichText(in)
		assert.Equal(t, once, StripRichText(once))
	}
}

func TestStripControlChars(t *testing.T) {
	assert.Equal(t, "ab\ncd\te", stripControlChars("a\x00b\nc\x08d\te\x7f"))
}

package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"", FormatHTML},
		{"html", FormatHTML},
		{"Markdown", FormatMarkdown},
		{" md ", FormatMarkdown},
		{"text", FormatText},
		{"plain", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestContainsHTML(t *testing.T) {
	assert.False(t, ContainsHTML(""))
	assert.False(t, ContainsHTML("第一章 少年"))
	assert.False(t, ContainsHTML("Use <stdin> and 2 > 1"))
	assert.True(t, ContainsHTML("<p>段落</p>"))
	assert.True(t, ContainsHTML("line<br/>line"))
	assert.True(t, ContainsHTML("<P>upper</P>"))
}

func TestToMarkdown(t *testing.T) {
	assert.Equal(t, "The **sky** opened.", ToMarkdown("<p>The <strong>sky</strong> opened.</p>"))
	assert.Equal(t, "plain text", ToMarkdown("plain text"))
	assert.Equal(t, "", ToMarkdown(""))
}

func TestToMarkdown_Paragraphs(t *testing.T) {
	got := ToMarkdown("<p>第一段</p><p>第二段</p>")
	assert.Equal(t, "第一段\n\n第二段", got)
}

func TestToText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "paragraphs", body: "<p>第一段</p><p>第二段</p>", want: "第一段\n\n第二段"},
		{name: "inline markup", body: "<p>The <strong>sky</strong>\n   opened.</p>", want: "The sky opened."},
		{name: "line breaks", body: "<p>one<br>two</p>", want: "one\ntwo"},
		{name: "entities", body: "<p>Tom &amp; Jerry &lt;3</p>", want: "Tom & Jerry <3"},
		{name: "plain", body: "no markup", want: "no markup"},
		{name: "empty", body: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToText(tt.body))
		})
	}
}

func TestRender(t *testing.T) {
	body := "<p>Waves.</p>"
	assert.Equal(t, body, Render(body, FormatHTML))
	assert.Equal(t, "Waves.", Render(body, FormatMarkdown))
	assert.Equal(t, "Waves.", Render(body, FormatText))
}

func TestNormalizeText(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	assert.Equal(t, "caf\u00e9", NormalizeText("  cafe\u0301 \n"))
	assert.Equal(t, "", NormalizeText(" \t "))
	assert.Equal(t, "好书", NormalizeText("好书"))
}

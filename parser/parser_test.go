package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ed-digest/parser"
)

func TestDocumentToTextSingleParagraph(t *testing.T) {
	text, err := parser.DocumentToText(`<document version="2.0"><paragraph>Hello</paragraph></document>`)
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
}

func TestDocumentToTextParagraphSeparation(t *testing.T) {
	text, err := parser.DocumentToText(`<document><paragraph>first</paragraph><paragraph>second</paragraph></document>`)
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond", text)
}

func TestDocumentToTextUnknownNodeSkipped(t *testing.T) {
	text, err := parser.DocumentToText(`<document><widget>nope</widget><paragraph>Hello</paragraph></document>`)
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
	assert.NotContains(t, text, "nope")
}

func TestDocumentToTextInlineMarkup(t *testing.T) {
	text, err := parser.DocumentToText(`<document><paragraph>a <bold>b</bold> <italic>c</italic></paragraph></document>`)
	require.NoError(t, err)
	assert.Equal(t, "a b c", text)
}

func TestDocumentToTextList(t *testing.T) {
	text, err := parser.DocumentToText(`<document><list><list-item>one</list-item><list-item>two</list-item></list></document>`)
	require.NoError(t, err)
	assert.Equal(t, "one\n\ntwo", text)
}

func TestDocumentToTextBreak(t *testing.T) {
	text, err := parser.DocumentToText(`<document><paragraph>a<break/>b</paragraph></document>`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", text)
}

func TestDocumentToTextBreakKeepsFollowingText(t *testing.T) {
	// <break/> is not void to html.Parse, so the rest of the paragraph
	// parses as its children; none of it may be lost.
	text, err := parser.DocumentToText(`<document><paragraph>line one<break/>line two<break/>line three</paragraph></document>`)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\nline three", text)
}

func TestDocumentToTextEmptyInput(t *testing.T) {
	text, err := parser.DocumentToText("")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestDocumentToTextMalformedMarkup(t *testing.T) {
	// Unclosed tags must not abort; html.Parse repairs them.
	text, err := parser.DocumentToText(`<document><paragraph>still here`)
	require.NoError(t, err)
	assert.Equal(t, "still here", text)
}

func TestDocumentToTextDepthBound(t *testing.T) {
	// 505 levels: deep enough to pass the walk's bound, shallow enough
	// that html.Parse (open-element limit 512) still builds the tree.
	var b strings.Builder
	b.WriteString("<document>")
	for i := 0; i < 505; i++ {
		b.WriteString("<list>")
	}
	b.WriteString("unreachable")

	text, err := parser.DocumentToText(b.String())
	require.NoError(t, err)
	assert.Contains(t, text, parser.TruncationMarker)
	assert.NotContains(t, text, "unreachable")
}

func TestDocumentToTextBeyondParserLimit(t *testing.T) {
	// Past html.Parse's open-element limit the document cannot be built
	// at all; DocumentToText surfaces the error and PostBody degrades to
	// an empty body instead of panicking or hanging.
	var b strings.Builder
	b.WriteString("<document>")
	for i := 0; i < 3000; i++ {
		b.WriteString("<list>")
	}
	b.WriteString("unreachable")

	_, err := parser.DocumentToText(b.String())
	require.Error(t, err)
	assert.Empty(t, parser.PostBody(b.String()))
}

func TestDocumentToTextDeterministic(t *testing.T) {
	raw := `<document><heading level="1">Title</heading><paragraph>body text</paragraph></document>`
	first, err := parser.DocumentToText(raw)
	require.NoError(t, err)
	second, err := parser.DocumentToText(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPostBodyValidDocument(t *testing.T) {
	body := parser.PostBody(`<document><paragraph>Hello</paragraph></document>`)
	assert.Equal(t, "Hello", body)
}

func TestPostBodyEmptyNeverPanics(t *testing.T) {
	assert.Empty(t, parser.PostBody(""))
}

func TestPostBodyAllUnknownDegrades(t *testing.T) {
	// Nothing the structured walk recognizes; degrades without error, and
	// whatever comes back must not include markup.
	body := parser.PostBody(`<mystery attr="1"><thing>x</thing></mystery>`)
	assert.NotContains(t, body, "<")
}

package xmltree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BuildsTreeInDocumentOrder(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<template format_id="1.8">
  <content><![CDATA[  Hello World  ]]></content>
  <properties><pageFormat mediaSizeName="1"/></properties>
  <elements resolver="hvl-default"><paragraph><content startOffset="0" length="5"/></paragraph></elements>
</template>`

	root, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "template", root.Name.Local)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "content", root.Children[0].Name.Local)
	assert.Equal(t, "properties", root.Children[1].Name.Local)
	assert.Same(t, root, root.Children[1].Parent)

	v, ok := root.Attr("format_id")
	assert.True(t, ok)
	assert.Equal(t, "1.8", v)

	text, ok := root.Children[0].TextOK()
	assert.True(t, ok)
	assert.Equal(t, "  Hello World  ", text)
}

func TestParse_TextStopsAtFirstChild(t *testing.T) {
	root, err := ParseBytes([]byte(`<a>lead<!-- skipped -->ing<b>inner</b>tail</a>`))
	require.NoError(t, err)
	assert.Equal(t, "leading", root.Text())
	assert.Equal(t, "inner", root.Children[0].Text())
}

func TestParse_EmptyElementHasNoText(t *testing.T) {
	root, err := ParseBytes([]byte(`<a><b></b><c/><d> </d></a>`))
	require.NoError(t, err)

	_, ok := root.Children[0].TextOK()
	assert.False(t, ok, "<b></b>")
	_, ok = root.Children[1].TextOK()
	assert.False(t, ok, "<c/>")
	s, ok := root.Children[2].TextOK()
	assert.True(t, ok, "<d> </d>")
	assert.Equal(t, " ", s)
}

func TestParse_DecodesDeclaredCharset(t *testing.T) {
	// "Şğı" in ISO-8859-9.
	payload := append([]byte(`<?xml version="1.0" encoding="ISO-8859-9"?><r><content>`), 0xDE, 0xF0, 0xFD)
	payload = append(payload, []byte(`</content></r>`)...)

	root, err := ParseBytes(payload)
	require.NoError(t, err)
	assert.Equal(t, "\u015e\u011f\u0131", root.FindFirst("content").Text())
}

func TestParse_SkipsByteOrderMark(t *testing.T) {
	for name, doc := range map[string]string{
		"with declaration": "\ufeff<?xml version=\"1.0\" encoding=\"UTF-8\"?><template><content> Hi </content></template>",
		"bare root":        "\ufeff<template><content> Hi </content></template>",
	} {
		t.Run(name, func(t *testing.T) {
			root, err := ParseBytes([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, " Hi ", root.FindFirst("content").Text())
		})
	}

	_, err := ParseBytes([]byte("<a/>\ufeff"))
	assert.True(t, errors.Is(err, ErrMalformed), "a BOM after the root is still text: got %v", err)
}

func TestParse_ExpandsInternalEntities(t *testing.T) {
	doc := `<!DOCTYPE a [
  <!ENTITY x "y">
  <!ENTITY court 'Asliye Hukuk'>
  <!ENTITY x "ignored">
]><a><content>&x; &court; &amp;</content></a>`
	root, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "y Asliye Hukuk &", root.FindFirst("content").Text())

	_, err = ParseBytes([]byte(`<!DOCTYPE a [<!ENTITY x "y">]><a>&z;</a>`))
	assert.True(t, errors.Is(err, ErrMalformed), "undeclared entity: got %v", err)
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":            ``,
		"whitespace only":  "  \n ",
		"unclosed":         `<a><b>text</b>`,
		"mismatched":       `<a><b></a></b>`,
		"second root":      `<a/><b/>`,
		"text before root": `junk<a/>`,
		"bad entity":       `<a>&nope;</a>`,
		"unknown charset":  `<?xml version="1.0" encoding="x-no-such-charset"?><a/>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBytes([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestFindFirst_DepthFirstDescendantsOnly(t *testing.T) {
	doc := `<content>
  <x><y><content>deep first</content></y></x>
  <content>shallow second</content>
</content>`
	root, err := ParseBytes([]byte(doc))
	require.NoError(t, err)

	got := root.FindFirst("content")
	require.NotNil(t, got)
	assert.Equal(t, "deep first", got.Text())
	assert.NotSame(t, root, got)

	assert.Nil(t, got.FindFirst("content"))
	assert.Nil(t, root.FindFirst("missing"))
}

func TestFindFirst_IgnoresNamespacedElements(t *testing.T) {
	doc := `<r xmlns:u="urn:udf"><u:content>ns</u:content><content>plain</content></r>`
	root, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "plain", root.FindFirst("content").Text())

	doc = `<r xmlns="urn:udf"><content>default ns</content></r>`
	root, err = ParseBytes([]byte(doc))
	require.NoError(t, err)
	assert.Nil(t, root.FindFirst("content"))
}

func TestWalk_StopsEarly(t *testing.T) {
	root, err := ParseBytes([]byte(`<a><b/><c/><d/></a>`))
	require.NoError(t, err)

	var seen []string
	done := root.Walk(func(n *Node) bool {
		seen = append(seen, n.Name.Local)
		return n.Name.Local != "c"
	})
	assert.False(t, done)
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

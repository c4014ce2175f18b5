package textnorm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, name := range []string{"", "none", "NONE"} {
		f, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, "none", f.String())
	}
	for _, name := range []string{"nfc", "NFD", " nfkc ", "nfkd"} {
		_, err := Parse(name)
		require.NoError(t, err, name)
	}
	_, err := Parse("nfx")
	assert.True(t, errors.Is(err, ErrUnknownForm), "got %v", err)
}

func TestApply(t *testing.T) {
	// "Ş" as S + combining cedilla.
	decomposed := "S\u0327eker"

	var zero Form
	assert.Equal(t, decomposed, zero.Apply(decomposed))

	nfc, err := Parse("nfc")
	require.NoError(t, err)
	assert.Equal(t, "\u015eeker", nfc.Apply(decomposed))

	nfd, err := Parse("nfd")
	require.NoError(t, err)
	assert.Equal(t, decomposed, nfd.Apply("\u015eeker"))

	nfkc, err := Parse("nfkc")
	require.NoError(t, err)
	assert.Equal(t, "fi", nfkc.Apply("\ufb01"))
}

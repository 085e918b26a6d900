package sitefind_test

import (
	"testing"

	"github.com/fwojciec/sitefind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngine(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]sitefind.SearchEngine{
		"google":     sitefind.EngineGoogle,
		"Yandex":     sitefind.EngineYandex,
		"duckduckgo": sitefind.EngineDuckDuckGo,
		" ddg ":      sitefind.EngineDuckDuckGo,
	} {
		got, err := sitefind.ParseEngine(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := sitefind.ParseEngine("bing")
	require.Error(t, err)
	assert.Equal(t, sitefind.EINVALID, sitefind.ErrorCode(err))
}

func TestEngineProfile_QueryURL(t *testing.T) {
	t.Parallel()

	p := &sitefind.EngineProfile{SearchURL: "https://yandex.ru/search/?text={query}"}

	assert.Equal(t, "https://yandex.ru/search/?text=%D0%90+%D0%91", p.QueryURL("А Б"))
}

func TestEngineProfile_Validate(t *testing.T) {
	t.Parallel()

	p := &sitefind.EngineProfile{Engine: sitefind.EngineGoogle, SearchURL: "https://g/?q={query}", Selectors: []string{"a"}}
	require.NoError(t, p.Validate())

	p.SearchURL = "https://g/"
	assert.Equal(t, sitefind.EINVALID, sitefind.ErrorCode(p.Validate()))

	p.SearchURL = "https://g/?q={query}"
	p.Selectors = nil
	assert.Equal(t, sitefind.EINVALID, sitefind.ErrorCode(p.Validate()))
}

func TestProfiles_Profile(t *testing.T) {
	t.Parallel()

	var p *sitefind.Profiles
	_, err := p.Profile(sitefind.EngineGoogle)
	assert.Equal(t, sitefind.ENOTFOUND, sitefind.ErrorCode(err))

	p = &sitefind.Profiles{Match: "regex"}
	assert.Equal(t, sitefind.EINVALID, sitefind.ErrorCode(p.Validate()))
}

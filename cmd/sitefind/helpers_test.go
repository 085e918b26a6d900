package main_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/sitefind"
	main "github.com/fwojciec/sitefind/cmd/sitefind"
	"github.com/fwojciec/sitefind/mock"
	"github.com/fwojciec/sitefind/yaml"
	"github.com/stretchr/testify/require"
)

// sites maps a fragment of the query to the website the fake engine
// returns for it.
var sites = map[string]string{
	"Ромашка": "https://romashka-stroy.ru/",
	"Вектор":  "https://www.vektor.su/about?utm_source=google",
}

// resultsPage renders a Google-like results page for query.
func resultsPage(query string) string {
	for fragment, site := range sites {
		if strings.Contains(query, fragment) {
			return `<html><body><div id="search">` +
				`<div class="g"><div class="yuRUbf"><a href="https://vk.com/club1"><h3>VK</h3></a></div></div>` +
				`<div class="g"><div class="yuRUbf"><a href="` + site + `"><h3>` + fragment + `</h3></a></div></div>` +
				`</div></body></html>`
		}
	}
	return `<html><body><div id="search"></div></body></html>`
}

// fakeFetcher serves resultsPage and counts fetches.
func fakeFetcher(fetches *atomic.Int32) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ sitefind.SearchEngine, query string) (string, error) {
			fetches.Add(1)
			return resultsPage(query), nil
		},
		CloseFn: func() error { return nil },
	}
}

// testConfig returns flags without pacing.
func testConfig() *main.Config {
	return &main.Config{
		Engine:   "google",
		Retries:  1,
		Fetcher:  "rod",
		Sessions: 1,
	}
}

func testDeps(t *testing.T, fetcher sitefind.Fetcher) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	profiles, err := yaml.DefaultProfiles()
	require.NoError(t, err)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:        context.Background(),
		Stdout:     stdout,
		Stderr:     stderr,
		Logger:     slog.New(slog.DiscardHandler),
		Config:     testConfig(),
		Profiles:   profiles,
		NewFetcher: func() (sitefind.Fetcher, error) { return fetcher, nil },
	}
	return deps, stdout, stderr
}

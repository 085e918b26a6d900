package main_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/sitefind"
	main "github.com/fwojciec/sitefind/cmd/sitefind"
	"github.com/fwojciec/sitefind/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints one line per company", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		deps, stdout, _ := testDeps(t, fakeFetcher(&fetches))

		cmd := &main.ResolveCmd{Names: []string{"ООО Ромашка", "  ", "ИП Неизвестный", "ООО Ромашка"}}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, int32(2), fetches.Load())
		out := stdout.String()
		assert.Contains(t, out, "[1/2] ООО Ромашка: https://romashka-stroy.ru\n")
		assert.Contains(t, out, "[2/2] ИП Неизвестный: Не найден\n")
		assert.Contains(t, out, "Found 1 websites for 2 companies (50.0%), not found: 1")
	})

	t.Run("retries until a website is found", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		deps, stdout, _ := testDeps(t, &mock.Fetcher{
			FetchFn: func(_ context.Context, _ sitefind.SearchEngine, query string) (string, error) {
				if fetches.Add(1) == 1 {
					return "", sitefind.Errorf(sitefind.EFETCH, "connection reset")
				}
				return resultsPage(query), nil
			},
			CloseFn: func() error { return nil },
		})
		deps.Config.Retries = 3

		cmd := &main.ResolveCmd{Names: []string{"Ромашка"}}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, int32(2), fetches.Load())
		assert.Contains(t, stdout.String(), "Ромашка: https://romashka-stroy.ru")
	})

	t.Run("appends keywords to the query", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		deps, _, _ := testDeps(t, &mock.Fetcher{
			FetchFn: func(_ context.Context, _ sitefind.SearchEngine, query string) (string, error) {
				gotQuery = query
				return resultsPage(query), nil
			},
			CloseFn: func() error { return nil },
		})
		deps.Config.Keywords = true

		cmd := &main.ResolveCmd{Names: []string{"Ромашка"}}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "Ромашка официальный сайт", gotQuery)
	})

	t.Run("overrides keywords", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		deps, _, _ := testDeps(t, &mock.Fetcher{
			FetchFn: func(_ context.Context, _ sitefind.SearchEngine, query string) (string, error) {
				gotQuery = query
				return resultsPage(query), nil
			},
			CloseFn: func() error { return nil },
		})
		deps.Config.Keywords = true
		deps.Config.KeywordText = "сайт компании"

		cmd := &main.ResolveCmd{Names: []string{"Ромашка"}}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "Ромашка сайт компании", gotQuery)
	})

	t.Run("reuses earlier outcomes", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(t, &mock.Fetcher{
			FetchFn: func(context.Context, sitefind.SearchEngine, string) (string, error) {
				t.Error("cached company must not be searched")
				return "", nil
			},
			CloseFn: func() error { return nil },
		})
		deps.Config.Reuse = true
		deps.Cache = &mock.OutcomeCache{
			FindOutcomeFn: func(_ context.Context, company string, engine sitefind.SearchEngine) (sitefind.Outcome, error) {
				assert.Equal(t, sitefind.EngineYandex, engine)
				return sitefind.Outcome{URL: "https://romashka.ru"}, nil
			},
		}
		deps.Config.Engine = "yandex"

		cmd := &main.ResolveCmd{Names: []string{"Ромашка"}}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "Ромашка: https://romashka.ru")
	})

	t.Run("archives pages without a website", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		deps, _, _ := testDeps(t, fakeFetcher(&fetches))
		var archived []*sitefind.SearchPage
		deps.Archive = &mock.PageArchive{
			ArchiveFn: func(_ context.Context, page *sitefind.SearchPage) error {
				archived = append(archived, page)
				return nil
			},
		}

		cmd := &main.ResolveCmd{Names: []string{"ИП Неизвестный"}}
		require.NoError(t, cmd.Run(deps))

		require.Len(t, archived, 1)
		assert.Equal(t, "ИП Неизвестный", archived[0].Company)
		assert.True(t, archived[0].HasResults)
	})

	t.Run("throttles fetches across sessions", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		deps, stdout, _ := testDeps(t, nil)
		deps.Config.Sessions = 2
		deps.Config.Rate = 100
		deps.NewFetcher = func() (sitefind.Fetcher, error) { return fakeFetcher(&fetches), nil }

		cmd := &main.ResolveCmd{Names: []string{"Ромашка", "Вектор"}}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, int32(2), fetches.Load())
		assert.Contains(t, stdout.String(), "Found 2 websites for 2 companies")
	})

	t.Run("rejects blank names", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := testDeps(t, nil)

		cmd := &main.ResolveCmd{Names: []string{" ", "n/a"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitefind.EINVALID, sitefind.ErrorCode(err))
	})
}

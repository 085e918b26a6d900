package main_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/sitefind"
	main "github.com/fwojciec/sitefind/cmd/sitefind"
	"github.com/fwojciec/sitefind/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("resolves every company and writes results", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		deps, stdout, _ := testDeps(t, fakeFetcher(&fetches))
		input := writeInput(t, "Company Name\nООО \"Ромашка\"\nАО Вектор\nИП Неизвестный\nАО Вектор\n")

		var stored *sitefind.ResultMap
		deps.Runs = &mock.RunService{
			CreateRunFn: func(_ context.Context, run *sitefind.Run, results *sitefind.ResultMap) error {
				run.ID = "run-1"
				stored = results
				return nil
			},
		}

		cmd := &main.RunCmd{Input: input}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, int32(3), fetches.Load())

		data, err := os.ReadFile(filepath.Join(filepath.Dir(input), "companies_results.csv"))
		require.NoError(t, err)
		assert.Equal(t, "\ufeffCompany Name,Website\n"+
			"\"ООО \"\"Ромашка\"\"\",https://romashka-stroy.ru\n"+
			"АО Вектор,https://vektor.su/about\n"+
			"ИП Неизвестный,Не найден\n", string(data))

		require.NotNil(t, stored)
		assert.Equal(t, 3, stored.Len())

		out := stdout.String()
		assert.Contains(t, out, "Loaded 3 companies")
		assert.Contains(t, out, "[1/3] ООО \"Ромашка\": https://romashka-stroy.ru")
		assert.Contains(t, out, "Found 2 websites for 3 companies (66.7%), not found: 1")
		assert.Contains(t, out, "Recorded as run run-1")
	})

	t.Run("writes xlsx output", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		deps, _, _ := testDeps(t, fakeFetcher(&fetches))
		input := writeInput(t, "Company Name\nРомашка\n")
		output := filepath.Join(t.TempDir(), "out.xlsx")

		cmd := &main.RunCmd{Input: input, Output: output, NoHistory: true}
		require.NoError(t, cmd.Run(deps))

		_, err := os.Stat(output)
		require.NoError(t, err)
	})

	t.Run("skips history with no-history", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		deps, stdout, _ := testDeps(t, fakeFetcher(&fetches))
		deps.Runs = &mock.RunService{
			CreateRunFn: func(context.Context, *sitefind.Run, *sitefind.ResultMap) error {
				t.Error("run must not be recorded")
				return nil
			},
		}

		cmd := &main.RunCmd{Input: writeInput(t, "Company Name\nРомашка\n"), NoHistory: true}
		require.NoError(t, cmd.Run(deps))
		assert.NotContains(t, stdout.String(), "Recorded")
	})

	t.Run("history failure does not fail the run", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		deps, stdout, _ := testDeps(t, fakeFetcher(&fetches))
		deps.Runs = &mock.RunService{
			CreateRunFn: func(context.Context, *sitefind.Run, *sitefind.ResultMap) error {
				return errors.New("disk full")
			},
		}

		cmd := &main.RunCmd{Input: writeInput(t, "Company Name\nРомашка\n")}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "Results written to")
	})

	t.Run("stops when the fetcher cannot start", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := testDeps(t, nil)
		deps.NewFetcher = func() (sitefind.Fetcher, error) {
			return nil, errors.New("chrome not found")
		}
		input := writeInput(t, "Company Name\nРомашка\n")

		cmd := &main.RunCmd{Input: input}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Chrome or Chromium must be installed")
		assert.NotContains(t, stdout.String(), "Results written")
		_, statErr := os.Stat(filepath.Join(filepath.Dir(input), "companies_results.csv"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("closes fetchers of earlier sessions when one fails", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := testDeps(t, nil)
		deps.Config.Sessions = 3
		var opened, closed int
		deps.NewFetcher = func() (sitefind.Fetcher, error) {
			if opened == 2 {
				return nil, errors.New("too many browsers")
			}
			opened++
			return &mock.Fetcher{CloseFn: func() error { closed++; return nil }}, nil
		}

		cmd := &main.RunCmd{Input: writeInput(t, "Company Name\nРомашка\n"), NoHistory: true}
		require.Error(t, cmd.Run(deps))
		assert.Equal(t, 2, closed)
	})

	t.Run("spreads companies over sessions", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		deps, _, _ := testDeps(t, nil)
		deps.Config.Sessions = 2
		var sessions atomic.Int32
		deps.NewFetcher = func() (sitefind.Fetcher, error) {
			sessions.Add(1)
			return fakeFetcher(&fetches), nil
		}

		cmd := &main.RunCmd{Input: writeInput(t, "Company Name\nРомашка\nВектор\nДельта\n"), NoHistory: true}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, int32(2), sessions.Load())
		assert.Equal(t, int32(3), fetches.Load())
	})

	t.Run("rejects unsupported output", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(t, nil)

		cmd := &main.RunCmd{Input: writeInput(t, "Company Name\nРомашка\n"), Output: "out.json"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitefind.EINVALID, sitefind.ErrorCode(err))
		assert.Contains(t, stderr.String(), "unsupported output file")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := testDeps(t, nil)

		cmd := &main.RunCmd{Input: writeInput(t, "")}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitefind.EINVALID, sitefind.ErrorCode(err))
	})

	t.Run("rejects a list without names", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(t, nil)

		cmd := &main.RunCmd{Input: writeInput(t, "Company Name\nnan\n\n")}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitefind.EINVALID, sitefind.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no company names")
	})

	t.Run("writes partial results when interrupted during the last company", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var fetches atomic.Int32
		deps, _, stderr := testDeps(t, &mock.Fetcher{
			FetchFn: func(ctx context.Context, _ sitefind.SearchEngine, query string) (string, error) {
				if fetches.Add(1) == 2 {
					cancel()
					return "", ctx.Err()
				}
				return resultsPage(query), nil
			},
			CloseFn: func() error { return nil },
		})
		deps.Ctx = ctx
		input := writeInput(t, "Company Name\nРомашка\nВектор\n")

		cmd := &main.RunCmd{Input: input, NoHistory: true}
		err := cmd.Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, stderr.String(), "Interrupted after 1 of 2 companies")
		data, readErr := os.ReadFile(filepath.Join(filepath.Dir(input), "companies_results.csv"))
		require.NoError(t, readErr)
		assert.Contains(t, string(data), "Ромашка,https://romashka-stroy.ru")
		assert.NotContains(t, string(data), "Вектор")
	})
}

// Package fs provides file-based storage for result pages that produced no
// website, so selector drift can be diagnosed offline.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitefind"
)

// Ensure Archive implements sitefind.PageArchive at compile time.
var _ sitefind.PageArchive = (*Archive)(nil)

// Archive writes each page to dir as <engine>-<hash>.html, where hash is the
// xxhash of the markup. Identical pages share a file.
type Archive struct {
	dir string
}

// NewArchive creates an Archive writing to dir, created on first use.
func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// Archive implements sitefind.PageArchive.
func (a *Archive) Archive(ctx context.Context, page *sitefind.SearchPage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(a.dir, FileName(page))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(FormatPage(page)), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// FileName returns the archive file name of page.
func FileName(page *sitefind.SearchPage) string {
	return fmt.Sprintf("%s-%016x.html", page.Engine, xxhash.Sum64String(page.HTML))
}

// FormatPage prefixes the markup with a comment describing the search.
func FormatPage(page *sitefind.SearchPage) string {
	fetchedAt := page.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	var b strings.Builder
	b.WriteString("<!--\n")
	b.WriteString("engine: ")
	b.WriteString(string(page.Engine))
	b.WriteString("\ncompany: ")
	b.WriteString(commentSafe(page.Company))
	b.WriteString("\nquery: ")
	b.WriteString(commentSafe(page.Query))
	b.WriteString("\nhas_results: ")
	b.WriteString(fmt.Sprint(page.HasResults))
	b.WriteString("\nfetched: ")
	b.WriteString(fetchedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n-->\n")
	b.WriteString(page.HTML)
	return b.String()
}

func commentSafe(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}

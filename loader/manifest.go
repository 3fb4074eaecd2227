package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/resumedex/core"
	"github.com/poiesic/resumedex/extract"
)

// sourceFile describes one eligible document file in the source directory.
type sourceFile struct {
	name    string
	path    string
	size    int64
	modTime int64
}

// listSourceFiles returns the eligible files in dir, sorted by name.
// The listing is non-recursive; subdirectories are ignored.
func listSourceFiles(dir string) ([]sourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]sourceFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !extract.Eligible(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// File disappeared between listing and stat.
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		files = append(files, sourceFile{
			name:    entry.Name(),
			path:    filepath.Join(dir, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime().UnixMicro(),
		})
	}

	sort.Slice(files, func(a, b int) bool {
		return files[a].name < files[b].name
	})
	return files, nil
}

// manifestDigest fingerprints the source directory contents. Any change to
// the set of files, their sizes, or their modification times changes the
// digest and invalidates cached extractions built from it.
func manifestDigest(files []sourceFile) string {
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "%s|%d|%d\n", f.name, f.size, f.modTime)
	}
	return core.DigestFromContent(b.String())
}

package source

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/JonMunkholm/accountsync/internal/logging"
)

// Discover walks root recursively and returns every file an adapter is
// registered for, in lexical walk order.
func Discover(ctx context.Context, root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := ForPath(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		logging.FromContext(ctx).Warn("no such files in specified folder",
			"dir", root,
			"extensions", Extensions(),
		)
	}
	return paths, nil
}

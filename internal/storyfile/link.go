package storyfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LinkLatest points the suffix-less story path of target at target.Path. It
// returns the link path, or "" when the target has no suffix and the link
// would be the story file itself. A regular file at the link path is never
// replaced.
func LinkLatest(target Target) (string, error) {
	link := target.LatestPath()
	if filepath.Clean(link) == filepath.Clean(target.Path) {
		return "", nil
	}
	info, err := os.Lstat(link)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink == 0:
		return "", fmt.Errorf("refusing to replace %s: not a symlink", link)
	case err == nil:
		if err := os.Remove(link); err != nil {
			return "", fmt.Errorf("remove stale link: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("inspect link: %w", err)
	}
	if err := os.Symlink(filepath.Base(target.Path), link); err != nil {
		return "", fmt.Errorf("create link: %w", err)
	}
	return link, nil
}

package config

import (
	"fmt"
	"os"
)

// SourceToken identifies one version of a routes file. Any write that
// changes the modification time or the size yields a new token.
type SourceToken struct {
	ModTime int64
	Size    int64
}

// StatSource returns the current token of the file at path.
func StatSource(path string) (SourceToken, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SourceToken{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return SourceToken{ModTime: info.ModTime().UnixNano(), Size: info.Size()}, nil
}

// String formats the token as "<mtime>-<size>".
func (t SourceToken) String() string {
	return fmt.Sprintf("%d-%d", t.ModTime, t.Size)
}

// IsZero reports whether the token was never set.
func (t SourceToken) IsZero() bool {
	return t.ModTime == 0 && t.Size == 0
}

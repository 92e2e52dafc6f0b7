package xcscheme

import (
	"fmt"
	"os/user"
	"path/filepath"
)

// SharedSchemeFilePath returns the scheme's location under the project's
// shared scheme storage (committed to version control, visible to everyone).
func SharedSchemeFilePath(projectPath, schemeName string) string {
	return filepath.Join(projectPath, "xcshareddata", "xcschemes", schemeName+".xcscheme")
}

// UserSchemeFilePath returns the scheme's location under the current user's
// private scheme storage.
func UserSchemeFilePath(projectPath, schemeName string) (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return filepath.Join(projectPath, "xcuserdata", currentUser.Username+".xcuserdatad", "xcschemes", schemeName+".xcscheme"), nil
}

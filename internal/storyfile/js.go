package storyfile

import (
	"encoding/base64"
	"fmt"
	"os"

	"informcompile/internal/fileutil"
)

// JSFunction is the loader callback web interpreters expect in .js story files.
const JSFunction = "processBase64Zcode"

// EncodeJS wraps story bytes in the JavaScript loader call.
func EncodeJS(story []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(story)
	return []byte(fmt.Sprintf("%s('%s');", JSFunction, encoded))
}

// WriteJS reads the story file at storyPath and writes its Base64 JavaScript
// wrapper to storyPath+".js", returning the written path.
func WriteJS(storyPath string) (string, error) {
	story, err := os.ReadFile(storyPath)
	if err != nil {
		return "", fmt.Errorf("read story file: %w", err)
	}
	jsPath := storyPath + ".js"
	if err := fileutil.WriteFileAtomic(jsPath, EncodeJS(story), 0o644); err != nil {
		return "", fmt.Errorf("write javascript story file: %w", err)
	}
	return jsPath, nil
}

package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the project's .env files into the
// process environment. Variables already set in the environment take
// precedence, so a real TAXGEN_ENDPOINT always beats the file.
//
// Two locations are checked at the project root: .taxgen/.env (for
// values kept next to the config, out of version control) and .env.
// Without a project root only the working directory's .env is tried.
func LoadDotEnv() {
	root := FindProjectRoot()
	if root == "" {
		root = "."
	}

	for _, path := range []string{
		filepath.Join(root, ".taxgen", ".env"),
		filepath.Join(root, ".env"),
	} {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		_ = godotenv.Load(path)
	}
}

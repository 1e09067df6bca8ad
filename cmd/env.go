package cmd

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no --env flag is given
const DefaultEnvFile = ".env"

// LoadEnv loads the dotenv file named by --env in args, or DefaultEnvFile.
// Variables already set in the process win. A missing default file is not
// an error; a missing explicit one is.
func LoadEnv(args []string) error {
	path, explicit := envFileFromArgs(args)
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// envFileFromArgs finds --env FILE or --env=FILE before flags are parsed
func envFileFromArgs(args []string) (string, bool) {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "env" {
			continue
		}
		if hasValue {
			return value, true
		}
		if i+1 < len(args) {
			return args[i+1], true
		}
	}
	return DefaultEnvFile, false
}

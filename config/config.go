// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

//nolint:gochecknoinits // Configs are loaded once, for the whole runtime.
func init() {
	loadApplicationConfig()
	dotEnvPath := `.env`
	for range 5 {
		if err := godotenv.Load(dotEnvPath); err == nil {
			break
		}
		dotEnvPath = fmt.Sprintf(`../%v`, dotEnvPath)
	}
}

// MustLoadFromKey unmarshals the `key` sub-tree of the application.yaml into cfg.
func MustLoadFromKey(key string, cfg any) {
	if err := viper.UnmarshalKey(key, cfg); err != nil {
		log.Panic(errors.Wrapf(err, "failed to load config by key %q", key))
	}
}

func loadApplicationConfig() {
	for _, file := range applicationConfigCandidates() {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err == nil {
			return
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Panic(err)
		}
	}

	log.Panic(errors.New("could not find any application.yaml files"))
}

//nolint:dogsled // Only the caller file matters.
func applicationConfigCandidates() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(wd, ".testdata"), wd)
	}
	if executable, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(executable))
	}
	_, callerFile, _, _ := runtime.Caller(0)
	dirs = append(dirs, filepath.Join(filepath.Dir(callerFile), ".."))

	files := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		files = append(files, filepath.Join(dir, "application.yaml"))
	}

	return files
}

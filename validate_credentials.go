package main

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

func validateCredentials(creds credentials) error {
	var problems []string
	if creds.AccessToken == "" {
		problems = append(problems, "no PlayCanvas access token available for download operation")
	}
	if creds.ProjectName == "" {
		problems = append(problems, "no PlayCanvas project name to store file")
	}
	if creds.PackageName != "" && !isBareFileName(creds.PackageName) {
		problems = append(problems, "package name must be a plain file name: "+creds.PackageName)
	}
	if len(problems) > 0 {
		return configurationError(errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

func isBareFileName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

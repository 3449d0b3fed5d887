package main

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

func readCredentials(file string) (credentials, error) {
	var creds credentials
	bytes, err := os.ReadFile(file)
	if err != nil {
		return creds, configurationError(errors.Errorf("unable to find credentials file '%s'", file))
	}
	err = yaml.Unmarshal(bytes, &creds)
	if err != nil {
		return creds, configurationError(errors.Wrapf(err, "could not unmarshal credentials file %s", file))
	}

	return creds, nil
}

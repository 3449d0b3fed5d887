package main

import "strings"

func convertCredentials(creds credentials) credentials {
	if creds.PackageName == "" {
		creds.PackageName = defaultPackageName
	}
	return creds
}

func interpolateCredentials(creds credentials) credentials {
	creds.PackageName = interpolateString(creds, creds.PackageName)
	return creds
}

func interpolateString(creds credentials, s string) string {
	s = strings.ReplaceAll(s, "${PROJECT_ID}", creds.ProjectId)
	s = strings.ReplaceAll(s, "${PROJECT_NAME}", creds.ProjectName)
	return s
}

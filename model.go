package main

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type credentials struct {
	AccessToken string `json:"accessToken"`
	ProjectId   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	PackageName string `json:"packageName"`
}

type jobStatus string

const (
	statusRunning  jobStatus = "running"
	statusComplete jobStatus = "complete"
	statusError    jobStatus = "error"
)

var (
	knownStatuses    = []jobStatus{statusRunning, statusComplete, statusError}
	terminalStatuses = []jobStatus{statusComplete, statusError}
)

// jobID accepts both numeric and string ids from the API.
type jobID string

func (id *jobID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = jobID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = jobID(n.String())
	return nil
}

type job struct {
	Id     jobID           `json:"id"`
	Status jobStatus       `json:"status"`
	Data   jobData         `json:"data"`
	Error  json.RawMessage `json:"error,omitempty"`
}

type jobData struct {
	DownloadUrl string `json:"download_url"`
}

// failed reports whether the response carried a truthy error field.
func (j *job) failed() bool {
	e := bytes.TrimSpace(j.Error)
	if len(e) == 0 {
		return false
	}
	switch string(e) {
	case "null", "false", `""`, "0":
		return false
	}
	return true
}

type createJobRequest struct {
	ProjectId interface{} `json:"project_id"`
	Name      string      `json:"name"`
}

type args struct {
	ApiUrl     string
	OutputDir  string
	HttpClient *http.Client
	Poll       pollPolicy
}

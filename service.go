package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const maxResponseBytes = 1 << 20

type service struct {
	httpClient  *http.Client
	baseUrl     string
	accessToken string
}

func initializeService(args args, accessToken string) *service {
	httpClient := args.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseUrl := args.ApiUrl
	if baseUrl == "" {
		baseUrl = defaultApiUrl
	}

	return &service{
		httpClient:  httpClient,
		baseUrl:     strings.TrimSuffix(baseUrl, "/"),
		accessToken: accessToken,
	}
}

func (c *service) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "could not marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("User-Agent", tag)
	return req, nil
}

// doJSON sends req and decodes a JSON response body into out.
func (c *service) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrap(err, "could not read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("%s %s: http code %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "could not decode response from %s", req.URL.Path)
	}
	return nil
}

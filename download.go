package main

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Downloader retrieves a remote file and stores it at a local path.
type Downloader interface {
	Download(ctx context.Context, url, destination string) error
}

type httpDownloader struct {
	client *http.Client
}

func newDownloader(client *http.Client) Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpDownloader{client: client}
}

// Download streams url into destination. A partially written file is
// removed when the transfer fails.
func (d *httpDownloader) Download(ctx context.Context, rawUrl, destination string) error {
	log.Info().Msgf("downloading package from %s to %s", redactUrl(rawUrl), destination)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawUrl, nil)
	if err != nil {
		return downloadError(errors.Wrap(err, "invalid download url"))
	}
	req.Header.Set("User-Agent", tag)

	resp, err := d.client.Do(req)
	if err != nil {
		return downloadError(errors.Wrap(err, "download request failed"))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return downloadError(errors.Errorf("download failed with http code %d", resp.StatusCode))
	}

	file, err := os.Create(destination)
	if err != nil {
		return downloadError(errors.Wrapf(err, "could not create %s", destination))
	}

	n, err := io.Copy(file, resp.Body)
	if err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(destination); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Msgf("could not remove partial file %s: %s", destination, rmErr)
		}
		return downloadError(errors.Wrapf(err, "could not write %s", destination))
	}

	log.Info().Msgf("downloaded %s to %s", humanize.Bytes(uint64(n)), destination)
	return nil
}

// redactUrl strips the query from signed urls before they are logged.
func redactUrl(rawUrl string) string {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return "<invalid url>"
	}
	return u.Host + u.Path
}

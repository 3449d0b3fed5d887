package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/elliotchance/pie/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// pollPolicy is a fixed-interval attempt budget for job status queries.
type pollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

func defaultPollPolicy() pollPolicy {
	return pollPolicy{Interval: defaultPollInterval, MaxAttempts: defaultMaxAttempts}
}

func (p pollPolicy) wait(ctx context.Context) error {
	if p.sleep != nil {
		return p.sleep(ctx, p.Interval)
	}
	return sleepContext(ctx, p.Interval)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *service) createJob(ctx context.Context, creds credentials) (jobID, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/apps/download", createJobRequest{
		ProjectId: projectIdValue(creds.ProjectId),
		Name:      creds.ProjectName,
	})
	if err != nil {
		return "", networkError(errors.Wrapf(err, "create job for project %s", creds.ProjectName))
	}

	var res job
	if err := c.doJSON(req, &res); err != nil {
		return "", networkError(errors.Wrapf(err, "create job for project %s", creds.ProjectName))
	}
	if res.failed() {
		return "", networkError(errors.Errorf("create job for project %s: %s", creds.ProjectName, string(res.Error)))
	}
	if res.Id == "" {
		return "", networkError(errors.Errorf("create job for project %s: response has no job id", creds.ProjectName))
	}

	log.Info().Msgf("packaging job created: %s", res.Id)
	return res.Id, nil
}

func (c *service) getJob(ctx context.Context, id jobID) (*job, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(string(id)), nil)
	if err != nil {
		return nil, networkError(errors.Wrapf(err, "query job %s", id))
	}

	var res job
	if err := c.doJSON(req, &res); err != nil {
		return nil, networkError(errors.Wrapf(err, "query job %s", id))
	}
	if e := log.Debug(); e.Enabled() {
		e.Msgf("job %s response:\n%s", id, spew.Sdump(res))
	}
	if res.failed() {
		return nil, networkError(errors.Errorf("query job %s: %s", id, string(res.Error)))
	}
	if !pie.Contains(knownStatuses, res.Status) {
		return nil, networkError(errors.Errorf("query job %s: unknown status %q", id, res.Status))
	}
	return &res, nil
}

// waitForJob polls until the job reaches a terminal status or the attempt
// budget runs out. No sleep follows the last attempt.
func (c *service) waitForJob(ctx context.Context, id jobID, p pollPolicy) (*job, error) {
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := p.wait(ctx); err != nil {
				return nil, errors.Wrapf(err, "waiting for job %s", id)
			}
		}

		j, err := c.getJob(ctx, id)
		if err != nil {
			return nil, err
		}

		log.Info().Msgf("job %s status: %s (attempt %d/%d)", id, j.Status, attempt+1, p.MaxAttempts)
		if !pie.Contains(terminalStatuses, j.Status) {
			continue
		}

		if j.Status == statusError {
			return nil, jobError(errors.Errorf("job %s reported an error", id))
		}
		if j.Data.DownloadUrl == "" {
			return nil, jobError(errors.Errorf("job %s completed without a download url", id))
		}
		return j, nil
	}

	return nil, timeoutError(errors.Errorf("job %s still running after %d attempts", id, p.MaxAttempts))
}

// projectIdValue sends numeric project ids as JSON numbers.
func projectIdValue(id string) interface{} {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

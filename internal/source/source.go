package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/hedisam/pipeline/chans"
)

const (
	// maxBodySize caps how much of a response we read.
	maxBodySize = 1 << 20
)

var (
	// ErrFieldNotFound is returned when the configured field is missing from the response.
	ErrFieldNotFound = errors.New("field not found")
	// ErrInvalidValue is returned when the configured field does not hold a number.
	ErrInvalidValue = errors.New("invalid sample value")
)

type Client struct {
	logger     *logrus.Logger
	httpClient *http.Client
	url        string
	field      string
}

func New(logger *logrus.Logger, httpClient *http.Client, url, field string) *Client {
	return &Client{
		logger:     logger,
		httpClient: httpClient,
		url:        url,
		field:      field,
	}
}

// Stream polls the endpoint every pollTick and sends every decoded sample on the returned channel.
// The channel is closed once ctx is done.
func (c *Client) Stream(ctx context.Context, pollTick time.Duration) <-chan *Sample {
	out := make(chan *Sample)

	go func() {
		defer close(out)

		t := time.NewTicker(pollTick)
		defer t.Stop()

		for range chans.ReceiveOrDoneSeq(ctx, t.C) {
			sample, err := c.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.WithError(err).Error("Failed to fetch sample")
				failedFetches.Inc()
				continue
			}

			c.logger.WithField("value", sample.Value).Debug("Received sample")
			if !chans.SendOrDone(ctx, out, sample) {
				return
			}
			fetchedSamples.Inc()
		}
	}()

	return out
}

// Fetch makes a single request to the endpoint and decodes its sample.
func (c *Client) Fetch(ctx context.Context) (*Sample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create new http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("do request with retry: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("response", string(body)).Error("Failed to get sample with unexpected status code")
		return nil, fmt.Errorf("received unexpected status: %s", resp.Status)
	}

	sample, err := decodeSample(body, c.field, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}

	return sample, nil
}

// doRequestWithRetry retries transport failures and 5xx responses with backoff. Other statuses are
// returned as they are for the caller to judge.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	var attempt int
	logger := c.logger.WithFields(logrus.Fields{
		"url":   c.url,
		"field": c.field,
	})

	bk := backoff.WithContext(newPollBackoff(), req.Context())
	return backoff.RetryWithData(func() (*http.Response, error) {
		attempt++
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, backoff.Permanent(fmt.Errorf("poll sample source: %w", err))
			}
			logger.WithField("attempt", attempt).WithError(err).Warn("Failed to poll sample source, retrying...")
			retriedPolls.Inc()
			return nil, fmt.Errorf("poll attempt %d: %w", attempt, err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"status":  resp.StatusCode,
			}).Warn("Sample source responded with server error, retrying...")
			retriedPolls.Inc()
			return nil, fmt.Errorf("poll attempt %d: server error: %s", attempt, resp.Status)
		}
		return resp, nil
	}, bk)
}

// newPollBackoff gives up on a single poll after two seconds.
func newPollBackoff() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(time.Millisecond*50),
		backoff.WithMultiplier(1.5),
		backoff.WithRandomizationFactor(0.5),
		backoff.WithMaxInterval(time.Millisecond*500),
		backoff.WithMaxElapsedTime(time.Second*2),
	)
}

package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lolirofle/fixed-circular-buffer/internal/custompromauto"
)

func counterValue(t *testing.T, name string) float64 {
	t.Helper()

	families, err := custompromauto.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	require.Failf(t, "metric not registered", "no metric named %q", name)
	return 0
}

func TestFetch(t *testing.T) {
	tests := map[string]struct {
		field         string
		status        int
		body          string
		expectedValue float64
		expectedErr   error
		errContains   string
	}{
		"json number": {
			field:         "value",
			status:        http.StatusOK,
			body:          `{"value": 12.5}`,
			expectedValue: 12.5,
		},
		"decimal string": {
			field:         "value",
			status:        http.StatusOK,
			body:          `{"value": " 42 "}`,
			expectedValue: 42,
		},
		"hex string in nested field": {
			field:         "result.gasUsed",
			status:        http.StatusOK,
			body:          `{"jsonrpc": "2.0", "result": {"gasUsed": "0x4d2"}}`,
			expectedValue: 1234,
		},
		"missing field": {
			field:       "value",
			status:      http.StatusOK,
			body:        `{"other": 1}`,
			expectedErr: ErrFieldNotFound,
		},
		"not a number": {
			field:       "value",
			status:      http.StatusOK,
			body:        `{"value": true}`,
			expectedErr: ErrInvalidValue,
		},
		"invalid hex": {
			field:       "value",
			status:      http.StatusOK,
			body:        `{"value": "0xzz"}`,
			expectedErr: ErrInvalidValue,
		},
		"nan string": {
			field:       "value",
			status:      http.StatusOK,
			body:        `{"value": "NaN"}`,
			expectedErr: ErrInvalidValue,
		},
		"infinity string": {
			field:       "value",
			status:      http.StatusOK,
			body:        `{"value": "-Infinity"}`,
			expectedErr: ErrInvalidValue,
		},
		"inf string": {
			field:       "value",
			status:      http.StatusOK,
			body:        `{"value": "+inf"}`,
			expectedErr: ErrInvalidValue,
		},
		"hex above 64 bits": {
			field:         "result",
			status:        http.StatusOK,
			body:          `{"result": "0x10000000000000000"}`,
			expectedValue: 18446744073709551616,
		},
		"hex wei balance above int64": {
			field:         "result",
			status:        http.StatusOK,
			body:          `{"result": "0x8AC7230489E80000"}`,
			expectedValue: 1e19,
		},
		"not an object": {
			field:       "value",
			status:      http.StatusOK,
			body:        `[1, 2]`,
			errContains: "decode object",
		},
		"unexpected status": {
			field:       "value",
			status:      http.StatusNotFound,
			body:        `not found`,
			errContains: "unexpected status",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(test.status)
				_, _ = w.Write([]byte(test.body))
			}))
			defer srv.Close()

			c := New(logrus.New(), srv.Client(), srv.URL, test.field)
			sample, err := c.Fetch(context.Background())
			if test.expectedErr != nil || test.errContains != "" {
				require.Error(t, err)
				if test.expectedErr != nil {
					assert.ErrorIs(t, err, test.expectedErr)
				}
				if test.errContains != "" {
					assert.ErrorContains(t, err, test.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedValue, sample.Value)
			assert.Equal(t, []byte(test.body), sample.Raw)
			assert.False(t, sample.ObservedAt.IsZero())
		})
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"value": 7}`))
	}))
	defer srv.Close()

	retriedBefore := counterValue(t, "historyd_source_retried_polls_total")

	c := New(logrus.New(), srv.Client(), srv.URL, "value")
	sample, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(7), sample.Value)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, float64(2), counterValue(t, "historyd_source_retried_polls_total")-retriedBefore)
}

func TestFetchGivesUpOnPersistentServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(logrus.New(), srv.Client(), srv.URL, "value")
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "server error: 503 Service Unavailable")
	assert.Greater(t, calls.Load(), int32(1))
}

func TestFetchDoesNotRetryCanceledContext(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(logrus.New(), srv.Client(), srv.URL, "value")
	_, err := c.Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}

func TestMetricsRegistered(t *testing.T) {
	for _, name := range []string{
		"historyd_source_failed_fetches_total",
		"historyd_source_fetched_samples_total",
		"historyd_source_retried_polls_total",
	} {
		t.Run(name, func(t *testing.T) {
			assert.GreaterOrEqual(t, counterValue(t, name), float64(0))
		})
	}
}

func TestStream(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 2 {
			_, _ = w.Write([]byte(`{"value": "nope"}`))
			return
		}
		_, _ = w.Write([]byte(`{"value": ` + string(rune('0'+n)) + `}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := New(logrus.New(), srv.Client(), srv.URL, "value")
	stream := c.Stream(ctx, time.Millisecond*10)

	var got []float64
	for sample := range stream {
		got = append(got, sample.Value)
		if len(got) == 2 {
			cancel()
			break
		}
	}
	// the second poll is skipped since it has no valid value
	assert.Equal(t, []float64{1, 3}, got)

	// drain until the producer closes the channel
	for range stream {
	}
}

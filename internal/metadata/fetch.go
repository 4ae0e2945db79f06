package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

const userAgent = "Watchlist/1.0 (https://github.com/mrlokans/watchlist)"

// maxBodyBytes bounds provider responses read into memory.
const maxBodyBytes = 4 << 20

// fetcher performs GET requests against a provider, retrying transport
// failures and 5xx responses.
type fetcher struct {
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
}

func newFetcher(httpClient *http.Client, attempts uint) *fetcher {
	if attempts == 0 {
		attempts = 1
	}
	return &fetcher{
		httpClient: httpClient,
		attempts:   attempts,
		delay:      200 * time.Millisecond,
	}
}

// get returns the response status and body. Non-2xx statuses other than
// those listed in accept are reported as *StatusError.
func (f *fetcher) get(ctx context.Context, provider, url string, accept ...int) (int, []byte, error) {
	var (
		status int
		body   []byte
	)

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}
			req.Header.Set("User-Agent", userAgent)
			req.Header.Set("Accept", "application/json")

			resp, err := f.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("%s request: %w", provider, err)
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			if err != nil {
				return fmt.Errorf("%s read body: %w", provider, err)
			}

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				if !containsStatus(accept, resp.StatusCode) {
					return &StatusError{Provider: provider, StatusCode: resp.StatusCode}
				}
			}

			status, body = resp.StatusCode, data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
	if err != nil {
		if errors.Is(err, ErrProvider) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	return status, body, nil
}

// isTransient reports whether a failed attempt is worth repeating.
func isTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func containsStatus(codes []int, code int) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

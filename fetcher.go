package status_logger

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	connectTimeout  = 3 * time.Second
	idleConnTimeout = 90 * time.Second
	maxBodyBytes    = 8 << 20
)

// FetchOutcome classifies a single fetch attempt. Anything other than FetchOK
// means "no payload this cycle"; the fetcher never surfaces an error to the
// caller.
type FetchOutcome int

const (
	FetchOK FetchOutcome = iota
	FetchTimedOut
	FetchAborted
	FetchTransportError
	FetchHTTPError
)

func (o FetchOutcome) String() string {
	switch o {
	case FetchOK:
		return "ok"
	case FetchTimedOut:
		return "timed out"
	case FetchAborted:
		return "aborted"
	case FetchTransportError:
		return "transport error"
	case FetchHTTPError:
		return "http error"
	default:
		return "unknown"
	}
}

type Fetcher struct {
	client    *http.Client
	url       string
	userAgent string
	timeout   time.Duration
	logger    logrus.FieldLogger
}

// NewFetcher creates a fetcher issuing single GET requests against url, each
// bounded by timeout. The timeout is expected to be strictly shorter than the
// polling interval so a hung request cannot stall the next cycle.
func NewFetcher(url, userAgent string, timeout time.Duration, logger logrus.FieldLogger) *Fetcher {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: connectTimeout}).DialContext,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: connectTimeout,
	}

	return &Fetcher{
		client:    &http.Client{Transport: tr},
		url:       url,
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger,
	}
}

// Fetch performs one bounded GET. The deadline timer lives only for this
// attempt: it is armed before the request and released when Fetch returns.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, FetchOutcome) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		f.logger.WithError(err).Error("Failed to build status request")
		return nil, FetchTransportError
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			f.logger.Warnf("Status fetch exceeded %s deadline, request cancelled", f.timeout)
			return nil, FetchTimedOut
		case errors.Is(err, context.Canceled):
			f.logger.Warn("Status fetch aborted")
			return nil, FetchAborted
		default:
			f.logger.WithError(err).Warn("Status fetch failed")
			return nil, FetchTransportError
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Warnf("Status fetch returned HTTP %d", resp.StatusCode)
		return nil, FetchHTTPError
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			f.logger.Warnf("Status fetch exceeded %s deadline while reading body", f.timeout)
			return nil, FetchTimedOut
		case errors.Is(err, context.Canceled):
			f.logger.Warn("Status fetch aborted while reading body")
			return nil, FetchAborted
		default:
			f.logger.WithError(err).Warn("Failed to read status response body")
			return nil, FetchTransportError
		}
	}

	// the payload is stored verbatim, so a body we cannot hold in full is no
	// payload at all
	if len(body) > maxBodyBytes {
		f.logger.Warnf("Status response exceeded the %d byte cap, dropping payload", maxBodyBytes)
		return nil, FetchTransportError
	}

	return body, FetchOK
}

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/zalepa/campuscrime/logger"
)

// Resolver returns the raw content of a named dataset file.
type Resolver interface {
	Resolve(ctx context.Context, kind Kind, name string) ([]byte, error)
}

// ValidateName rejects names that are empty or contain path elements.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// DirSource reads <Root>/<kind>/<name> from the local filesystem.
type DirSource struct {
	Root string
}

func (s DirSource) Resolve(ctx context.Context, kind Kind, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	p := filepath.Join(s.Root, string(kind), name)
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// HTTPSource fetches <BaseURL>/<kind>/<name>. Server errors and transport
// failures are retried with exponential backoff; 404 is final.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
	Retries uint64
	// InitialInterval is the first backoff delay. Defaults to 500ms.
	InitialInterval time.Duration
}

func (s *HTTPSource) url(kind Kind, name string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + path.Join(string(kind), url.PathEscape(name))
}

func (s *HTTPSource) Resolve(ctx context.Context, kind Kind, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	target := s.url(kind, name)
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	b := backoff.NewExponentialBackOff()
	if s.InitialInterval > 0 {
		b.InitialInterval = s.InitialInterval
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, s.Retries), ctx)

	var body []byte
	op := func() error {
		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%s: %w", target, ErrNotFound))
		case resp.StatusCode >= 500:
			return fmt.Errorf("%s: status %d", target, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("%s: status %d", target, resp.StatusCode))
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// Chain tries each source in order and returns the first hit.
type Chain struct {
	Sources []Resolver
	Log     *logger.Logger
}

// ResolverOptions configures remote locations built by NewResolver.
type ResolverOptions struct {
	Timeout time.Duration
	Retries uint64
	// Rate is requests per second shared by all remote locations; zero
	// disables limiting.
	Rate float64
	Log  *logger.Logger
}

// NewResolver builds a Chain from location strings: http(s) URLs become
// HTTPSources, anything else a DirSource.
func NewResolver(locations []string, opts ResolverOptions) *Chain {
	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}
	client := &http.Client{Timeout: opts.Timeout}

	c := &Chain{Log: opts.Log}
	for _, loc := range locations {
		if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
			c.Sources = append(c.Sources, &HTTPSource{
				BaseURL: loc,
				Client:  client,
				Limiter: limiter,
				Retries: opts.Retries,
			})
			continue
		}
		c.Sources = append(c.Sources, DirSource{Root: loc})
	}
	return c
}

func (c *Chain) Resolve(ctx context.Context, kind Kind, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	log := c.Log
	if log == nil {
		log = logger.Discard()
	}

	var errs []error
	for _, src := range c.Sources {
		data, err := src.Resolve(ctx, kind, name)
		if err == nil {
			log.WithField("file", name).WithField("source", describe(src)).Debug("resolved dataset")
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).WithField("file", name).Debug("candidate location failed")
		errs = append(errs, err)
	}

	for _, err := range errs {
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("load %s from all attempted locations: %w", name, errors.Join(errs...))
		}
	}
	return nil, fmt.Errorf("load %s from all attempted locations: %w", name, ErrNotFound)
}

func describe(r Resolver) string {
	switch s := r.(type) {
	case DirSource:
		return s.Root
	case *HTTPSource:
		return s.BaseURL
	}
	return fmt.Sprintf("%T", r)
}

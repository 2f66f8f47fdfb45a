package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oge-trainer/oge/internal/validation"
	"gopkg.in/yaml.v3"
)

// DefaultFetchTimeout bounds a remote catalog read.
const DefaultFetchTimeout = 15 * time.Second

// IsRemote reports whether source names an http(s) resource.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads the catalog from source, which is either a local file path or
// an http(s) URL. The resource is read exactly once; there is no retry.
// Every failure wraps ErrCatalogUnavailable.
func Load(ctx context.Context, source string) (*Catalog, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: no catalog source configured", ErrCatalogUnavailable)
	}

	var (
		data []byte
		err  error
	)
	if IsRemote(source) {
		data, err = fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	cat, err := Parse(data, validation.IsYAML(source))
	if err != nil {
		return nil, err
	}
	slog.Debug("Catalog loaded", "source", source, "variants", cat.Len())
	return cat, nil
}

// Parse validates and decodes a catalog document.
func Parse(data []byte, isYAML bool) (*Catalog, error) {
	var problems []string
	if isYAML {
		problems = validation.ValidateCatalogYAML(data)
	} else {
		problems = validation.ValidateCatalogJSON(data)
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCatalogUnavailable, strings.Join(problems, "; "))
	}

	var doc document
	var err error
	if isYAML {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding catalog: %w", ErrCatalogUnavailable, err)
	}

	cat, err := New(doc.Variants)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return cat, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	client := resty.New().SetTimeout(DefaultFetchTimeout)

	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json, application/yaml;q=0.9").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status())
	}
	return resp.Body(), nil
}

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fredhutch/github-org-manager/pkg/metrics"
)

// FetchAll walks a paginated list endpoint starting at firstURL and returns
// the concatenated items in server order. Consecutive page fetches are spaced
// by the configured delay to stay under the shared rate limit; the first fetch
// is never delayed.
func (s *client) FetchAll(ctx context.Context, firstURL string) ([]json.RawMessage, error) {
	items := make([]json.RawMessage, 0)

	url := firstURL
	for page := 0; url != ""; page++ {
		if page > 0 && s.pageDelay > 0 {
			time.Sleep(s.pageDelay)
		}

		resp, err := s.do(ctx, http.MethodGet, url)
		if err != nil {
			return nil, err
		}

		pageItems, next, err := readPage(resp)
		if err != nil {
			return nil, err
		}

		metrics.IncPagesFetched()
		items = append(items, pageItems...)
		url = next
	}

	return items, nil
}

func readPage(resp *http.Response) ([]json.RawMessage, string, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("%s: %s", resp.Status, string(text))
	}

	items := make([]json.RawMessage, 0)
	err := json.NewDecoder(resp.Body).Decode(&items)
	if err != nil {
		return nil, "", err
	}

	next, err := nextLink(resp.Header.Get("Link"))
	if err != nil {
		return nil, "", err
	}

	return items, next, nil
}

// nextLink extracts the rel="next" target from an RFC 5988 style Link header:
// comma-separated entries of the form `<url>; rel="..."`. An absent header or
// one without a next relation ends the walk; a header that mentions the next
// relation but yields no parseable entry is a hard error.
func nextLink(header string) (string, error) {
	if header == "" || !strings.Contains(header, `rel="next"`) {
		return "", nil
	}

	for _, entry := range strings.Split(header, ",") {
		parts := strings.Split(entry, ";")
		if len(parts) < 2 {
			continue
		}

		target := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}

		for _, param := range parts[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.Trim(target, "<>"), nil
			}
		}
	}

	return "", fmt.Errorf("malformed link header: %q", header)
}

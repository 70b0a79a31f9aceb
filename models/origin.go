package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	e "github.com/Chilfish/anonTweet-sub001/errors"
)

// originClient talks to the upstream record source over HTTP. Responses
// are opaque JSON payloads; this client owns no schema beyond the URL
// shapes below.
type originClient struct {
	baseURL string
	client  *http.Client
}

// How long a single origin round trip may take. Joined callers apply
// their own deadlines on top of this when waiting on the coalescer.
const originTimeout = 10 * time.Second

// NewOriginClient creates the upstream client. bearerToken may be empty
// for endpoints that serve anonymous reads.
func NewOriginClient(baseURL, bearerToken string) OriginClient {
	client := &http.Client{Timeout: originTimeout}

	if bearerToken != "" {
		client = oauth2.NewClient(
			context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearerToken}),
		)
		client.Timeout = originTimeout
	}

	return &originClient{
		baseURL: baseURL,
		client:  client,
	}
}

var originPaths = map[RecordKind]string{
	KindPost:         "statuses/%s",
	KindPostReplies:  "statuses/%s/replies",
	KindUserTimeline: "users/%s/timeline",
	KindUserProfile:  "users/%s",
}

// Fetch retrieves one record from the upstream. A 404 is the upstream
// confirming absence; rate limits, 5xx responses and transport errors
// are all transient.
func (o *originClient) Fetch(
	ctx context.Context,
	kind RecordKind,
	id string,
) (json.RawMessage, error) {
	pathFmt, ok := originPaths[kind]
	if !ok {
		return nil, e.New("origin.Fetch", e.NotFound,
			fmt.Sprintf("unknown record kind: %s", kind))
	}

	u := fmt.Sprintf(
		"%s/%s",
		o.baseURL,
		fmt.Sprintf(pathFmt, url.PathEscape(id)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, e.Wrap("origin.Fetch", e.Transient, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, e.Wrap("origin.Fetch", e.Transient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to read the body
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusGone:
		return nil, e.New("origin.Fetch", e.NotFound,
			fmt.Sprintf("%s %s does not exist upstream", kind, id))
	default:
		// 429 and 5xx are the expected shapes here; anything else
		// unexpected is treated the same way so the caller may retry.
		return nil, e.New("origin.Fetch", e.Transient,
			fmt.Sprintf("origin returned %d for %s %s",
				resp.StatusCode, kind, id))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.Wrap("origin.Fetch", e.Transient, err)
	}

	if !json.Valid(body) {
		return nil, e.New("origin.Fetch", e.Transient,
			fmt.Sprintf("origin returned malformed JSON for %s %s",
				kind, id))
	}

	return json.RawMessage(body), nil
}

// Package activitypub fetches remote ActivityStreams documents.
package activitypub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const acceptHeader = `application/activity+json, application/ld+json; profile="https://www.w3.org/ns/activitystreams"`

var ErrRemoteNotFound = errors.New("remote entity not found")

type Client struct {
	http *resty.Client
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", acceptHeader).
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Client{http: client}
}

// Fetch returns the raw document served at id.
func (c *Client) Fetch(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(id)
	if err != nil {
		return nil, fmt.Errorf("activitypub.Client.Fetch - request to %s failed: %w", id, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusGone:
		return nil, fmt.Errorf("activitypub.Client.Fetch - %s: %w", id, ErrRemoteNotFound)
	case resp.IsError():
		return nil, fmt.Errorf("activitypub.Client.Fetch - %s answered %d", id, resp.StatusCode())
	}

	return resp.Body(), nil
}

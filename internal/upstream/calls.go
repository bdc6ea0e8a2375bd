package upstream

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Thin verbs over resty so each operation stays one call. Every helper
// decodes the API's error payload on non-2xx and returns *APIError.

func (c *Client) get(ctx context.Context, path string, out any) error {
	apiErr := new(errorPayload)
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(out).
		SetError(apiErr).
		Get(path)
	return c.finish("GET", path, resp, err, apiErr)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	apiErr := new(errorPayload)
	req := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetError(apiErr)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	return c.finish("POST", path, resp, err, apiErr)
}

func (c *Client) put(ctx context.Context, path string, body any) error {
	apiErr := new(errorPayload)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetError(apiErr).
		Put(path)
	return c.finish("PUT", path, resp, err, apiErr)
}

func (c *Client) patch(ctx context.Context, path string, body any) error {
	apiErr := new(errorPayload)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetError(apiErr).
		Patch(path)
	return c.finish("PATCH", path, resp, err, apiErr)
}

func (c *Client) delete(ctx context.Context, path string) error {
	apiErr := new(errorPayload)
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(apiErr).
		Delete(path)
	return c.finish("DELETE", path, resp, err, apiErr)
}

func (c *Client) finish(method, path string, resp *resty.Response, err error, apiErr *errorPayload) error {
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return checkStatus(resp, apiErr)
}

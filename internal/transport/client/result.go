package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"pgm_storefront/internal/domain/models"
)

// CallOption adjusts a request built by the helpers below.
type CallOption func(*Request)

// WithToken passes an explicit bearer token, used only when no session
// token is stored.
func WithToken(token string) CallOption {
	return func(r *Request) { r.Token = token }
}

func WithQuery(q url.Values) CallOption {
	return func(r *Request) { r.Query = q }
}

func WithHeader(key, value string) CallOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

func Get[T any](ctx context.Context, c *Client, path string, opts ...CallOption) models.Result[T] {
	return Send[T](ctx, c, build(http.MethodGet, path, nil, "", opts))
}

func Delete[T any](ctx context.Context, c *Client, path string, opts ...CallOption) models.Result[T] {
	return Send[T](ctx, c, build(http.MethodDelete, path, nil, "", opts))
}

func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...CallOption) models.Result[T] {
	return sendJSON[T](ctx, c, http.MethodPost, path, body, opts)
}

func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...CallOption) models.Result[T] {
	return sendJSON[T](ctx, c, http.MethodPut, path, body, opts)
}

func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...CallOption) models.Result[T] {
	return sendJSON[T](ctx, c, http.MethodPatch, path, body, opts)
}

func PostMultipart[T any](ctx context.Context, c *Client, path string, form *Form, opts ...CallOption) models.Result[T] {
	return sendForm[T](ctx, c, http.MethodPost, path, form, opts)
}

func PutMultipart[T any](ctx context.Context, c *Client, path string, form *Form, opts ...CallOption) models.Result[T] {
	return sendForm[T](ctx, c, http.MethodPut, path, form, opts)
}

// Send performs req and folds the outcome into a Result. A 2xx answer with an
// empty body yields a zero T.
func Send[T any](ctx context.Context, c *Client, req Request) models.Result[T] {
	resp, err := c.Do(ctx, req)
	if err != nil {
		msg, status := Classify(err)
		return models.Fail[T](msg, status)
	}

	data := new(T)
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := json.Unmarshal(resp.Body, data); err != nil {
			return models.Fail[T](fmt.Sprintf("failed to decode response: %v", err), 0)
		}
	}

	return models.Ok(data, resp.Status)
}

func sendJSON[T any](ctx context.Context, c *Client, method, path string, body any, opts []CallOption) models.Result[T] {
	var raw []byte
	if body != nil {
		var err error
		if raw, err = json.Marshal(body); err != nil {
			return models.Fail[T](fmt.Sprintf("failed to encode request: %v", err), 0)
		}
	}
	return Send[T](ctx, c, build(method, path, raw, contentTypeJSON, opts))
}

func sendForm[T any](ctx context.Context, c *Client, method, path string, form *Form, opts []CallOption) models.Result[T] {
	raw, contentType, err := form.Encode()
	if err != nil {
		return models.Fail[T](err.Error(), 0)
	}
	return Send[T](ctx, c, build(method, path, raw, contentType, opts))
}

func build(method, path string, body []byte, contentType string, opts []CallOption) Request {
	req := Request{
		Method:      method,
		Path:        path,
		Body:        body,
		ContentType: contentType,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

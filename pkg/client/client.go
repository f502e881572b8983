/*
Copyright 2024-2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	ErrBaseURL = errors.New("invalid base URL")
)

// ResponseValidator checks a response against a published schema.
type ResponseValidator interface {
	ValidateResponse(ctx context.Context, r *http.Request, status int, header http.Header, body []byte) error
}

// Options allow the client to be tuned.
type Options struct {
	// Timeout bounds a single request, zero means no bound.
	Timeout time.Duration
	// Validator, when set, checks every response against the schema.
	Validator ResponseValidator
	// Transport overrides the default round tripper.
	Transport http.RoundTripper
}

// Client is a thin adapter over net/http that knows about the service's
// headers and failure taxonomy.  It is safe for concurrent use.
type Client struct {
	baseURL   string
	client    *http.Client
	validator ResponseValidator
}

// New returns a client for the service rooted at baseURL.
func New(baseURL string, options *Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBaseURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrBaseURL, u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("%w: no host in %q", ErrBaseURL, baseURL)
	}

	if options == nil {
		options = &Options{}
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout:   options.Timeout,
			Transport: options.Transport,
		},
		validator: options.Validator,
	}, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send issues the request and reads the whole response.  A non-nil response
// is returned with a ContractViolationError when schema validation fails, so
// callers still get to see what came back.
func (c *Client) Send(ctx context.Context, request *Request) (*Response, error) {
	log := log.FromContext(ctx).WithValues("method", request.Method, "path", request.Path)

	body, impliedContentType, err := request.encode()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, request.Method, c.baseURL+request.Path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")

	if impliedContentType != "" {
		req.Header.Set("Content-Type", impliedContentType)
	}

	for key, values := range request.Header {
		req.Header[key] = values
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Error(err, "request failed", "duration", duration, "traceparent", traceParent)

		return nil, &TransportError{
			Method:  request.Method,
			Path:    request.Path,
			TraceID: ExtractTraceID(traceParent),
			Err:     err,
		}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(err, "reading response body", "status", resp.StatusCode, "traceparent", traceParent)

		return nil, &TransportError{
			Method:  request.Method,
			Path:    request.Path,
			TraceID: ExtractTraceID(traceParent),
			Err:     fmt.Errorf("reading response body: %w", err),
		}
	}

	log.V(1).Info("request complete", "status", resp.StatusCode, "duration", duration, "traceparent", traceParent)

	response := &Response{
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		Body:        respBody,
		TraceParent: traceParent,
		Duration:    duration,
		method:      request.Method,
		path:        request.Path,
	}

	if c.validator != nil {
		if err := c.validator.ValidateResponse(ctx, req, resp.StatusCode, resp.Header, respBody); err != nil {
			return response, response.violation("response does not match schema", err)
		}
	}

	return response, nil
}

package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	RequestTimeout       = 15 * time.Second
	RequestRetryAttempts = 3
	RequestRetryBackoff  = 2 * time.Second
)

type HttpClientInterface interface {
	Get(url string) ([]byte, error)
	Post(url string, message []byte) ([]byte, error)
	Close()
}

// RetryHttpClient issues session-authenticated requests with a fixed retry
// budget and fixed backoff. The last error is returned once the budget is
// exhausted.
type RetryHttpClient struct {
	Session    *Session
	HttpClient *http.Client
	Attempts   int
	Backoff    time.Duration

	ownsClient bool
	closeOnce  sync.Once
}

func NewRetryHttpClient(session *Session) *RetryHttpClient {
	ApplyProxyEnvironment(DetectProxies())

	return &RetryHttpClient{
		Session:    session,
		HttpClient: &http.Client{Timeout: RequestTimeout},
		Attempts:   RequestRetryAttempts,
		Backoff:    RequestRetryBackoff,
		ownsClient: true,
	}
}

// NewRetryHttpClientWith wraps an externally supplied http.Client, which is
// never closed by this transport.
func NewRetryHttpClientWith(session *Session, httpClient *http.Client) *RetryHttpClient {
	return &RetryHttpClient{
		Session:    session,
		HttpClient: httpClient,
		Attempts:   RequestRetryAttempts,
		Backoff:    RequestRetryBackoff,
	}
}

func (c *RetryHttpClient) Get(url string) ([]byte, error) {
	return c.requestWithRetry("GET", url, nil)
}

func (c *RetryHttpClient) Post(url string, message []byte) ([]byte, error) {
	return c.requestWithRetry("POST", url, message)
}

func (c *RetryHttpClient) Close() {
	if !c.ownsClient {
		return
	}

	c.closeOnce.Do(func() {
		c.HttpClient.CloseIdleConnections()
	})
}

func (c *RetryHttpClient) requestWithRetry(method string, url string, message []byte) ([]byte, error) {
	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		responseBody, err := c.request(method, url, message)
		if err == nil {
			return responseBody, nil
		}

		lastErr = err
		log.Printf("%s %s failed (attempt %d/%d): %s", method, url, attempt, attempts, err.Error())

		if attempt < attempts {
			time.Sleep(c.Backoff)
		}
	}

	return nil, lastErr
}

func (c *RetryHttpClient) request(method string, url string, message []byte) ([]byte, error) {
	var reader io.Reader
	if message != nil {
		reader = bytes.NewReader(message)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}

	for name, value := range c.Session.GetHeaders() {
		req.Header.Set(name, value)
	}

	res, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}

	responseBody, err := io.ReadAll(res.Body)
	defer res.Body.Close()

	if err != nil {
		return nil, err
	}

	if res.StatusCode >= 400 {
		return nil, errors.New(fmt.Sprintf(
			"Request [%s] failed with error code: %d, body: %s",
			url,
			res.StatusCode,
			string(responseBody),
		))
	}

	return responseBody, nil
}

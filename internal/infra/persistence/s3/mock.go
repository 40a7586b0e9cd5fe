package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MockBackend is an in-memory object map served through an http.RoundTripper,
// enough of S3 for GetObject and PutObject.
type MockBackend struct {
	mu       sync.Mutex
	objects  map[string][]byte
	denyPuts bool
}

// NewMockForTests returns a Store wired to a fresh MockBackend.
func NewMockForTests(key string) (*Store, *MockBackend) {
	backend := &MockBackend{objects: make(map[string][]byte)}
	store, err := New(context.Background(), Config{
		Bucket:          "mock-bucket",
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		Key:             key,
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: backend}
	})
	if err != nil {
		panic(err)
	}
	return store, backend
}

// Object returns the stored body for key.
func (m *MockBackend) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.objects[key]
	return body, ok
}

// SetObject stores body under key.
func (m *MockBackend) SetObject(key string, body []byte) {
	m.mu.Lock()
	m.objects[key] = body
	m.mu.Unlock()
}

// DenyPuts makes PutObject answer 403 AccessDenied.
func (m *MockBackend) DenyPuts(deny bool) {
	m.mu.Lock()
	m.denyPuts = deny
	m.mu.Unlock()
}

// RoundTrip implements http.RoundTripper. Paths are path-style: /bucket/key.
func (m *MockBackend) RoundTrip(req *http.Request) (*http.Response, error) {
	_, key, _ := strings.Cut(strings.TrimPrefix(req.URL.Path, "/"), "/")
	m.mu.Lock()
	defer m.mu.Unlock()
	switch req.Method {
	case http.MethodPut:
		if m.denyPuts {
			return xmlError(http.StatusForbidden, "AccessDenied", "Access Denied"), nil
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		m.objects[key] = body
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}}, nil
	case http.MethodGet:
		body, ok := m.objects[key]
		if !ok {
			return xmlError(http.StatusNotFound, "NoSuchKey", "The specified key does not exist."), nil
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body)), ContentLength: int64(len(body)), Header: http.Header{
			"Content-Length": {fmt.Sprintf("%d", len(body))},
			"Content-Type":   {"application/json"},
			"Last-Modified":  {time.Now().UTC().Format(http.TimeFormat)},
			"ETag":           {"\"etag\""},
		}}, nil
	}
	return xmlError(http.StatusNotImplemented, "NotImplemented", req.Method), nil
}

func xmlError(status int, code, message string) *http.Response {
	body := `<?xml version="1.0" encoding="UTF-8"?><Error><Code>` + code + `</Code><Message>` + message + `</Message></Error>`
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/xml"}},
	}
}

// decodeChunked decodes a single-chunk aws-chunked payload: <hex>\r\n<body>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	sizeHex, rest, ok := strings.Cut(string(b), "\r\n")
	if !ok {
		return nil, false
	}
	var size int
	if _, err := fmt.Sscanf(sizeHex, "%x", &size); err != nil || size > len(rest) {
		return nil, false
	}
	if !strings.HasPrefix(rest[size:], "\r\n0\r\n") {
		return nil, false
	}
	return []byte(rest[:size]), true
}

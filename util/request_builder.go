package util

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// RequestBuilder builds http requests for handler tests and scripts.
type RequestBuilder struct {
	method      string
	url         string
	queryParams url.Values
	headers     map[string]string
	body        io.Reader
	contentType string
	err         error
}

func NewRequestBuilder(method, url string) *RequestBuilder {
	return &RequestBuilder{
		method:      method,
		url:         url,
		queryParams: make(map[string][]string),
		headers:     make(map[string]string),
	}
}

func (rb *RequestBuilder) WithQueryParam(key, value string) *RequestBuilder {
	rb.queryParams.Add(key, value)
	return rb
}

func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithPostParams sets the payload as the json body.
func (rb *RequestBuilder) WithPostParams(payload interface{}) *RequestBuilder {
	data, err := json.Marshal(payload)
	if err != nil {
		rb.err = err
		return rb
	}
	rb.body = bytes.NewReader(data)
	rb.contentType = "application/json"
	return rb
}

// WithMultipartFile sets a multipart body with a single file field.
func (rb *RequestBuilder) WithMultipartFile(field, fileName string, data []byte) *RequestBuilder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, fileName)
	if err != nil {
		rb.err = err
		return rb
	}
	if _, err := part.Write(data); err != nil {
		rb.err = err
		return rb
	}
	if err := writer.Close(); err != nil {
		rb.err = err
		return rb
	}
	rb.body = body
	rb.contentType = writer.FormDataContentType()
	return rb
}

func (rb *RequestBuilder) Build() (*http.Request, error) {
	if rb.err != nil {
		return nil, rb.err
	}
	reqURL := rb.url
	if len(rb.queryParams) > 0 {
		reqURL = reqURL + "?" + rb.queryParams.Encode()
	}
	req, err := http.NewRequest(rb.method, reqURL, rb.body)
	if err != nil {
		return nil, err
	}
	if rb.contentType != "" {
		req.Header.Set("Content-Type", rb.contentType)
	}
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

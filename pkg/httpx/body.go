package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// maxPeekBytes caps how much of a body the rate limiter will buffer when
// extracting a key. Request bodies on credential endpoints are tiny.
const maxPeekBytes = 64 << 10

// peekBody reads the request body and puts it back, so middleware can inspect
// it without starving the handler.
func peekBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}

func jsonUnmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return io.EOF
	}
	return json.Unmarshal(data, v)
}

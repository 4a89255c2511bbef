package clients

import (
	"fmt"
	"net/http"
)

// UpstreamError is a non-2xx answer from the shop backend.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream error: status=%d detail=%s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("upstream error: status=%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

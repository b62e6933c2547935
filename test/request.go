package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// Request executes a request against the router and returns the recorded
// response.
//
// The body can be a string, which is sent as is, or any other type, which is
// marshaled to JSON. Headers are set on the request before it is executed.
func Request(t *testing.T, r *gin.Engine, method, url string, body any, headers map[string]string) httptest.ResponseRecorder {
	var byteBuffer *bytes.Buffer

	if s, ok := body.(string); ok {
		byteBuffer = bytes.NewBufferString(s)
	} else if body != nil {
		marshaled, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("request body could not be marshaled: %s", err)
		}
		byteBuffer = bytes.NewBuffer(marshaled)
	} else {
		byteBuffer = bytes.NewBuffer([]byte{})
	}

	recorder := httptest.NewRecorder()
	request, err := http.NewRequest(method, url, byteBuffer)
	if err != nil {
		t.Fatalf("request could not be created: %s", err)
	}

	for name, value := range headers {
		request.Header.Set(name, value)
	}

	r.ServeHTTP(recorder, request)
	return *recorder
}

// DecodeResponse decodes the response body into the target struct.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	err := json.NewDecoder(r.Body).Decode(target)
	if err != nil {
		t.Fatalf("response could not be decoded: %s, body: %s", err, r.Body.String())
	}
}

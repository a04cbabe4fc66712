package www

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/icodeforyou/solarcalc-go/estimate"
)

// sizeField accepts both "5.5" and 5.5 in JSON documents.
type sizeField string

func (s *sizeField) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = sizeField(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("size must be a string or a number: %w", err)
	}
	*s = sizeField(n.String())
	return nil
}

type calcRequest struct {
	State string    `json:"state"`
	Size  sizeField `json:"size"`
}

func (c calcRequest) input() estimate.Input {
	return estimate.Input{State: c.State, SizeText: string(c.Size)}
}

type errorResponse struct {
	Error string `json:"error"`
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func wantsJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Accept"))
	return err == nil && mt == "application/json"
}

// readInput reads the calculator input from a JSON body, a form or the query string.
func readInput(r *http.Request) (estimate.Input, error) {
	if r.Method == http.MethodPost && isJSON(r) {
		var req calcRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
			return estimate.Input{}, fmt.Errorf("invalid request body: %w", err)
		}
		return req.input(), nil
	}
	if err := r.ParseForm(); err != nil {
		return estimate.Input{}, fmt.Errorf("invalid form: %w", err)
	}
	return estimate.Input{State: r.Form.Get("state"), SizeText: r.Form.Get("size")}, nil
}

// writeJSON encodes v before anything is sent, so an unencodable value
// becomes a 500 with an error document instead of an empty response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(v)
	if err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: "result cannot be encoded"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, werr := buf.WriteTo(w); werr != nil && err == nil {
		err = werr
	}
	return err
}

func asInputError(err error) (*estimate.InputError, bool) {
	var inputErr *estimate.InputError
	ok := errors.As(err, &inputErr)
	return inputErr, ok
}

// queryInt reads a positive integer query parameter, def when missing or invalid.
func queryInt(r *http.Request, key string, def int) int {
	i, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || i < 1 {
		return def
	}
	return i
}

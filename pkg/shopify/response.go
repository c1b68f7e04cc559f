package shopify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// APIError is an Admin API response that carried an "errors" payload or a non-2xx status.
type APIError struct {
	StatusCode int
	Errors     any
	Body       string
}

func (e *APIError) Error() string {
	if e.Errors != nil {
		b, _ := json.Marshal(e.Errors)
		return fmt.Sprintf("shopify api error: status=%d errors=%s", e.StatusCode, b)
	}
	if e.Body != "" {
		return fmt.Sprintf("shopify api error: status=%d body=%s", e.StatusCode, snippet(e.Body))
	}
	return fmt.Sprintf("shopify api error: status=%d", e.StatusCode)
}

// envelope is the top level of an Admin API object body. Key order matters: Shopify wraps a
// resource under its name as the first (usually only) key.
type envelope struct {
	hasFirst bool
	first    json.RawMessage
	errors   json.RawMessage
}

func parseEnvelope(body []byte) (envelope, bool) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return env, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return env, false
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return env, false
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return env, false
		}
		if !env.hasFirst {
			env.hasFirst = true
			env.first = raw
		}
		if key == "errors" {
			env.errors = raw
		}
	}
	return env, true
}

func (e envelope) hasErrors() bool {
	if len(e.errors) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(e.errors, &v); err != nil {
		return true
	}
	return !isEmpty(v)
}

// isEmpty treats null, false, 0, "", "0" and empty collections as empty.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == "" || t == "0"
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func unwrap(body []byte) any {
	if !json.Valid(body) {
		return string(body)
	}
	env, isObject := parseEnvelope(body)
	if !isObject || env.hasErrors() {
		var v any
		_ = json.Unmarshal(body, &v)
		return v
	}
	if !env.hasFirst {
		return nil
	}
	var v any
	_ = json.Unmarshal(env.first, &v)
	return v
}

func decodeInto(resp *Response, out any) error {
	if !json.Valid(resp.Body) {
		if !statusOK(resp.StatusCode) {
			return &APIError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
		}
		return fmt.Errorf("decode shopify response failed: status=%d body=%s", resp.StatusCode, snippet(string(resp.Body)))
	}

	env, isObject := parseEnvelope(resp.Body)
	if isObject && env.hasErrors() {
		var errs any
		_ = json.Unmarshal(env.errors, &errs)
		return &APIError{StatusCode: resp.StatusCode, Errors: errs, Body: string(resp.Body)}
	}
	if !statusOK(resp.StatusCode) {
		return &APIError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	if out == nil {
		return nil
	}

	raw := json.RawMessage(resp.Body)
	if isObject {
		if !env.hasFirst {
			return nil
		}
		raw = env.first
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode shopify response failed: %w body=%s", err, snippet(string(resp.Body)))
	}
	return nil
}

// queryValues accepts the payload shapes callers pass to GET: nil, url.Values,
// map[string]string and map[string]any.
func queryValues(payload any) (url.Values, error) {
	switch p := payload.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		return p, nil
	case map[string]string:
		q := url.Values{}
		for k, v := range p {
			q.Set(k, v)
		}
		return q, nil
	case map[string]any:
		q := url.Values{}
		for k, val := range p {
			switch v := val.(type) {
			case []string:
				for _, s := range v {
					q.Add(k, s)
				}
			default:
				q.Set(k, fmt.Sprint(v))
			}
		}
		return q, nil
	}
	return nil, fmt.Errorf("unsupported query payload %T", payload)
}

func snippet(s string) string {
	if len(s) > 512 {
		return s[:512]
	}
	return s
}

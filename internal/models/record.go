package models

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
)

// Record is the transaction summary posted by the nginx mirroring filter.
// Every field is optional: producers are not trusted to send all of them.
type Record struct {
	Method            string            `json:"method,omitempty"`
	URL               string            `json:"url,omitempty"`
	ClientIP          string            `json:"client_ip,omitempty"`
	RequestHeaders    map[string]string `json:"req_headers,omitempty"`
	RequestTimestamp  int64             `json:"request_timestamp,omitempty"`
	RequestPayload    string            `json:"req_payload,omitempty"`
	ResponseStatus    int               `json:"rsp_status,omitempty"`
	ResponseHeaders   map[string]string `json:"rsp_headers,omitempty"`
	ResponseTimestamp int64             `json:"response_timestamp,omitempty"`
	ResponsePayload   string            `json:"rsp_payload,omitempty"`
	RequestID         string            `json:"req_id,omitempty"`
	Destination       string            `json:"dst,omitempty"`
	ResponseDetails   string            `json:"rsp_code_details,omitempty"`
}

// ParseRecord decodes body as a Record. It returns nil when the body is not a JSON object.
func ParseRecord(body []byte) *Record {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil
	}
	var r Record
	if err := json.Unmarshal(body, &r); err != nil {
		return nil
	}
	return &r
}

// RequestPayloadSize returns the decoded size of the mirrored request body, or -1 if it is not valid base64.
func (r *Record) RequestPayloadSize() int {
	return decodedLen(r.RequestPayload)
}

// ResponsePayloadSize returns the decoded size of the mirrored response body, or -1 if it is not valid base64.
func (r *Record) ResponsePayloadSize() int {
	return decodedLen(r.ResponsePayload)
}

func decodedLen(s string) int {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return -1
	}
	return len(b)
}

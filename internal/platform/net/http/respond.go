package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "eventcatalog/internal/platform/errors"
	pnet "eventcatalog/internal/platform/net"
)

// Envelope is the response body for every JSON endpoint
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
	Page       *Page          `json:"page,omitempty"`
}

// Page describes one page of a paginated list
type Page struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	LastPage int `json:"last_page"`
}

// NewPage fills LastPage from total and size; an empty list still has one page
func NewPage(total, page, size int) Page {
	last := 1
	if size > 0 && total > 0 {
		last = (total + size - 1) / size
	}
	return Page{Total: total, Page: page, PageSize: size, LastPage: last}
}

// JSON writes v as application/json with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Text writes a raw body with the given content type
func Text(w stdhttp.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func errorEnvelope(err error, reqID string) (int, Envelope) {
	status := perr.HTTPStatus(err)
	wr := perr.WireFrom(err)
	return status, Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		Code:       wr.Code,
		Error:      wr.Message,
		Field:      wr.Field,
		RequestID:  reqID,
	}
}

func dataEnvelope(status int, data any, page *Page, reqID string) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  reqID,
		Data:       data,
		Page:       page,
	}
}

// RespondError maps err into an envelope and writes it
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, env := errorEnvelope(err, pnet.RequestID(r.Context()))
	JSON(w, status, env)
}

// Response is the return value of return-style handlers
type Response struct {
	Status int
	Body   any
	Page   *Page
	Header stdhttp.Header

	// Raw bypasses the envelope; ContentType is required with it
	Raw         []byte
	ContentType string
}

// Handle adapts a Response returning func to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	reqID := pnet.RequestID(r.Context())

	// errors win over whatever status was set
	if err, ok := resp.Body.(error); ok && err != nil {
		status, env := errorEnvelope(err, reqID)
		JSON(w, status, env)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	switch {
	case status == stdhttp.StatusNoContent:
		w.WriteHeader(status)
	case resp.ContentType != "":
		Text(w, status, resp.ContentType, resp.Raw)
	default:
		JSON(w, status, dataEnvelope(status, resp.Body, resp.Page, reqID))
	}
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response whose status comes from err
func Error(err error) Response { return Response{Body: err} }

// List returns a 200 response with a page block
func List(items any, p Page) Response {
	return Response{Status: stdhttp.StatusOK, Body: items, Page: &p}
}

// Raw returns a non-JSON 200 response, e.g. a calendar feed
func Raw(contentType string, body []byte) Response {
	return Response{Status: stdhttp.StatusOK, ContentType: contentType, Raw: body}
}

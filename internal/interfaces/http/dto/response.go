// Package dto defines the portal's response envelope and the error-code to
// HTTP-status table. Successful page operations answer with a render
// instruction or a redirect; the template tier consumes either.
package dto

// Response is the standard API response envelope
type Response struct {
	Success  bool       `json:"success"`
	Render   *Render    `json:"render,omitempty"`
	Redirect string     `json:"redirect,omitempty"`
	Data     any        `json:"data,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty"`
}

// Render names the view to draw and carries its page data
type Render struct {
	View string         `json:"view"`
	Data map[string]any `json:"data,omitempty"`
}

// ErrorInfo carries the error code and user-facing message
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RenderResponse builds a view-render envelope
func RenderResponse(view string, data map[string]any) Response {
	return Response{Success: true, Render: &Render{View: view, Data: data}}
}

// RedirectResponse builds a redirect envelope
func RedirectResponse(to string) Response {
	return Response{Success: true, Redirect: to}
}

// DataResponse builds a plain data envelope for non-page resources
func DataResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// ErrorResponse builds an error envelope
func ErrorResponse(code, message string) Response {
	return Response{Success: false, Error: &ErrorInfo{Code: code, Message: message}}
}

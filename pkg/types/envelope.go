package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// ProxyError is the flat error shape the proxy endpoints return when upstream
// cannot be reached. Details carries the transport failure text.
type ProxyError struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// UpstreamProxyError is the flat error shape for upstream responses that were
// neither OK nor parseable JSON.
type UpstreamProxyError struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Preview     string `json:"preview"`
}

package domain

// NoticeKind drives how a one-time notice is displayed.
type NoticeKind string

const (
	NoticeError   NoticeKind = "error"
	NoticeSuccess NoticeKind = "success"
)

// Notice is a one-time toast shown on the next page the browser renders.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// UnauthorizedNotice is queued when the route guard turns a user away.
var UnauthorizedNotice = Notice{
	Kind:    NoticeError,
	Message: "You do not have permission to access this page.",
}

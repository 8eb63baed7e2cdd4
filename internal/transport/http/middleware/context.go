package middleware

type ctxKey int

const (
	ctxKeyUser ctxKey = iota
	ctxKeyRequestID
)

package connect

import (
	"context"
	"crypto/subtle"
	"strings"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
)

const (
	// AuthorizationHeader carries the API bearer token.
	AuthorizationHeader = "Authorization"

	bearerPrefix = "Bearer "
)

var errUnauthenticated = errors.New("missing or invalid API token")

// TokenInterceptor validates a bearer token on unary and streaming calls.
// On clients it attaches the token instead. An empty token disables it.
type TokenInterceptor struct {
	token string
}

var _ connect.Interceptor = (*TokenInterceptor)(nil)

// NewTokenInterceptor creates a token interceptor.
func NewTokenInterceptor(token string) *TokenInterceptor {
	return &TokenInterceptor{token: token}
}

// WrapUnary implements connect.Interceptor.
func (i *TokenInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			i.attach(req.Header().Set)
			return next(ctx, req)
		}
		if !i.valid(req.Header().Get(AuthorizationHeader)) {
			return nil, connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
		}
		return next(ctx, req)
	}
}

// WrapStreamingClient implements connect.Interceptor.
func (i *TokenInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		i.attach(conn.RequestHeader().Set)
		return conn
	}
}

// WrapStreamingHandler implements connect.Interceptor.
func (i *TokenInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		if !i.valid(conn.RequestHeader().Get(AuthorizationHeader)) {
			return connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
		}
		return next(ctx, conn)
	}
}

func (i *TokenInterceptor) attach(set func(key, value string)) {
	if i.token != "" {
		set(AuthorizationHeader, bearerPrefix+i.token)
	}
}

func (i *TokenInterceptor) valid(header string) bool {
	if i.token == "" {
		return true
	}
	got, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(i.token)) == 1
}

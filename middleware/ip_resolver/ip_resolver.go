package ipresolver

import (
	"context"
	"net"
	"net/http"
	"strings"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type contextKey string

const (
	userIPKey   contextKey = "x-user-ip"
	callerIPKey contextKey = "x-caller-ip"
)

var errIPUnresolved = status.New(codes.InvalidArgument, "IP Address can't be resolved").Err()

func StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := getIPAddress(stream.Context())
		if err != nil {
			return err
		}
		wrapped := grpc_middleware.WrapServerStream(stream)
		wrapped.WrappedContext = ctx

		return handler(srv, wrapped)
	}
}

func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx, err := getIPAddress(ctx)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// Middleware stores the HTTP caller and forwarded user IPs in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), callerIPKey, hostOnly(r.RemoteAddr))
		if fwd := firstForwarded(r.Header.Values("X-Forwarded-For")); fwd != "" {
			ctx = context.WithValue(ctx, userIPKey, fwd)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerIP returns the address of the immediate peer.
func CallerIP(ctx context.Context) string {
	ip, _ := ctx.Value(callerIPKey).(string)
	return ip
}

// UserIP returns the forwarded client address, falling back to the caller.
func UserIP(ctx context.Context) string {
	if ip, ok := ctx.Value(userIPKey).(string); ok && ip != "" {
		return ip
	}
	return CallerIP(ctx)
}

func getIPAddress(ctx context.Context) (context.Context, error) {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return nil, errIPUnresolved
	}
	meta, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, errIPUnresolved
	}
	// User IP address will always be first
	if fwd := firstForwarded(meta.Get("x-forwarded-for")); fwd != "" {
		ctx = context.WithValue(ctx, userIPKey, fwd)
	}
	return context.WithValue(ctx, callerIPKey, hostOnly(p.Addr.String())), nil
}

func firstForwarded(values []string) string {
	if len(values) == 0 {
		return ""
	}
	first, _, _ := strings.Cut(values[0], ",")
	return strings.TrimSpace(first)
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	auth "github.com/goliatone/go-authentik"
)

const testSecret = "test-signing-key"

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

func quietLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything, mock.Anything).Maybe()
	l.On("Info", mock.Anything, mock.Anything).Maybe()
	l.On("Warn", mock.Anything, mock.Anything).Maybe()
	l.On("Error", mock.Anything, mock.Anything).Maybe()
	return l
}

// MockCodec implements auth.TokenCodec for testing
type MockCodec struct {
	mock.Mock
}

func (m *MockCodec) Sign(ctx context.Context, identity auth.Identity) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}

func (m *MockCodec) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

type sinkRecorder struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *sinkRecorder) Record(_ context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *sinkRecorder) types() []auth.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auth.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}

func testConfig(opts ...auth.ConfigOption) auth.AuthConfig {
	base := []auth.ConfigOption{
		auth.WithBasicAuth("alice", "hunter2"),
		auth.WithSigningKey(testSecret),
		auth.WithSigningOptions(auth.SigningOptions{ExpiresIn: time.Hour}),
	}
	return auth.NewAuthConfig(append(base, opts...)...)
}

// By default we set an expiration time 1 hour from now
func generateToken(method jwt.SigningMethod, key []byte, claims jwt.MapClaims) string {
	if claims["exp"] == nil {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		panic(err)
	}
	return signed
}

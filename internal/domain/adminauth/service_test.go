package adminauth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func testConfig(t *testing.T) Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("op-pass-1234"), bcrypt.MinCost)
	require.NoError(t, err)
	return Config{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
		Operators: []Operator{
			{ID: "op-1", Username: "alice", PasswordHash: string(hash), Role: "admin"},
		},
	}
}

func TestService_LoginAndValidate(t *testing.T) {
	svc := NewService(testConfig(t), newTestLogger())

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "Alice",
		Password: "op-pass-1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "op-1", resp.Operator.ID)
	require.Equal(t, "admin", resp.Operator.Role)
	require.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, "op-1", claims.OperatorID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "admin", claims.Role)
}

func TestService_BadCredentials(t *testing.T) {
	svc := NewService(testConfig(t), newTestLogger())

	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid username or password")

	_, err = svc.Login(context.Background(), LoginRequest{Username: "mallory", Password: "op-pass-1234"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid username or password")

	_, err = svc.Login(context.Background(), LoginRequest{Username: "", Password: "op-pass-1234"})
	require.Error(t, err)
}

func TestService_RejectsForeignToken(t *testing.T) {
	svc := NewService(testConfig(t), newTestLogger())

	other := NewService(Config{
		Secret:   "other-secret",
		TokenTTL: time.Hour,
		Operators: []Operator{
			{ID: "op-9", Username: "bob", PasswordHash: testConfig(t).Operators[0].PasswordHash, Role: "viewer"},
		},
	}, newTestLogger())

	resp, err := other.Login(context.Background(), LoginRequest{Username: "bob", Password: "op-pass-1234"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), resp.Token)
	require.Error(t, err)

	_, err = svc.ValidateToken(context.Background(), "")
	require.Error(t, err)
}

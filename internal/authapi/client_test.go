package authapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portald-dev/portald/internal/authapi"
	"github.com/portald-dev/portald/internal/authapi/authapitest"
)

func TestLogin_WrappedResponse(t *testing.T) {
	api := authapitest.NewServer(t, authapitest.WithAccount("Ana", "a@b.com", "x"))
	client := authapi.New(api.URL, 0)

	result, err := client.Login(context.Background(), authapi.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, authapi.ShapeWrapped, result.Shape)
	assert.Equal(t, "Ana", result.FullName)
	require.True(t, result.HasToken())

	claims, err := api.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestLogin_FlatResponse(t *testing.T) {
	api := authapitest.NewServer(t,
		authapitest.WithAccount("Ana", "a@b.com", "x"),
		authapitest.WithFlatResponses(),
	)
	client := authapi.New(api.URL, 0)

	result, err := client.Login(context.Background(), authapi.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, authapi.ShapeFlat, result.Shape)
	assert.Equal(t, "Ana", result.FullName)
	assert.True(t, result.HasToken())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	api := authapitest.NewServer(t, authapitest.WithAccount("Ana", "a@b.com", "x"))
	client := authapi.New(api.URL, 0)

	_, err := client.Login(context.Background(), authapi.LoginRequest{Email: "a@b.com", Password: "wrong"})
	require.Error(t, err)

	var rejection *authapi.RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, http.StatusUnauthorized, rejection.StatusCode)
	assert.Equal(t, "Invalid credentials", authapi.UserMessage(err))
}

func TestSignup_SendsFullName(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, authapi.SignupPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"isSuccess": true, "message": "created"}`))
	}))
	defer srv.Close()

	result, err := authapi.New(srv.URL+"/", 0).Signup(context.Background(), authapi.SignupRequest{
		FullName: "Ana",
		Email:    "a@b.com",
		Password: "x",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"fullName": "Ana", "email": "a@b.com", "password": "x"}, got)
	assert.False(t, result.HasToken())
	assert.Equal(t, "created", result.Message)
}

func TestSignup_NonObjectResult(t *testing.T) {
	for _, body := range []string{
		`{"isSuccess": true, "message": "created", "result": 42}`,
		`{"isSuccess": true, "message": "created", "result": "ok"}`,
		`{"isSuccess": true, "message": "created", "result": {"user": "u1"}}`,
	} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(body))
			}))
			defer srv.Close()

			result, err := authapi.New(srv.URL, 0).Signup(context.Background(), authapi.SignupRequest{
				FullName: "Ana",
				Email:    "a@b.com",
				Password: "x",
			})
			require.NoError(t, err)

			assert.Equal(t, authapi.ShapeWrapped, result.Shape)
			assert.False(t, result.HasToken())
			assert.Empty(t, result.FullName)
			assert.Equal(t, "created", result.Message)
		})
	}
}

func TestPost_ResponseClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantMessage string
		wantToken   string
		wantName    string
	}{
		{
			name:      "wrapped success",
			status:    http.StatusOK,
			body:      `{"isSuccess": true, "result": {"user": {"fullName": "Ana"}, "token": "T1"}}`,
			wantToken: "T1",
			wantName:  "Ana",
		},
		{
			name:      "flat success with snake case name",
			status:    http.StatusOK,
			body:      `{"token": "T2", "user": {"full_name": "Bo"}}`,
			wantToken: "T2",
			wantName:  "Bo",
		},
		{
			name:   "partial response",
			status: http.StatusOK,
			body:   `{"isSuccess": true, "result": {}}`,
		},
		{
			name:      "user given as a string",
			status:    http.StatusOK,
			body:      `{"isSuccess": true, "result": {"user": "u1", "token": "T3"}}`,
			wantToken: "T3",
		},
		{
			name:     "token of the wrong type",
			status:   http.StatusOK,
			body:     `{"isSuccess": true, "result": {"user": {"fullName": "Ana"}, "token": 7}}`,
			wantName: "Ana",
		},
		{
			name:   "result is a string",
			status: http.StatusOK,
			body:   `{"isSuccess": true, "result": "ok"}`,
		},
		{
			name:      "null result falls back to top level",
			status:    http.StatusOK,
			body:      `{"isSuccess": true, "result": null, "token": "T4"}`,
			wantToken: "T4",
		},
		{
			name:        "success flag false on 200",
			status:      http.StatusOK,
			body:        `{"isSuccess": false, "message": "Account locked"}`,
			wantErr:     true,
			wantMessage: "Account locked",
		},
		{
			name:        "non-2xx with message",
			status:      http.StatusUnauthorized,
			body:        `{"message": "Invalid credentials"}`,
			wantErr:     true,
			wantMessage: "Invalid credentials",
		},
		{
			name:        "non-2xx with error field",
			status:      http.StatusBadRequest,
			body:        `{"error": "email is required"}`,
			wantErr:     true,
			wantMessage: "email is required",
		},
		{
			name:        "non-2xx without message",
			status:      http.StatusInternalServerError,
			body:        `{}`,
			wantErr:     true,
			wantMessage: authapi.MessageRequestFailed,
		},
		{
			name:        "non-json error page",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantErr:     true,
			wantMessage: authapi.MessageRequestFailed,
		},
		{
			name:        "non-json success",
			status:      http.StatusOK,
			body:        `ok`,
			wantErr:     true,
			wantMessage: authapi.MessageRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			result, err := authapi.New(srv.URL, 0).Login(context.Background(), authapi.LoginRequest{Email: "a@b.com", Password: "x"})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantMessage, authapi.UserMessage(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, result.Token)
			assert.Equal(t, tt.wantName, result.FullName)
		})
	}
}

func TestLogin_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := authapi.New(url, 0).Login(context.Background(), authapi.LoginRequest{})
	require.Error(t, err)

	var transport *authapi.TransportError
	assert.True(t, errors.As(err, &transport))
	assert.Equal(t, authapi.MessageTransportFailure, authapi.UserMessage(err))
}

func TestLogin_CanceledContext(t *testing.T) {
	api := authapitest.NewServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := authapi.New(api.URL, 0).Login(ctx, authapi.LoginRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// Package authapitest provides an in-process Auth API for tests. It speaks the
// same contract as the real service: bcrypt-hashed credentials and HS256 JWTs.
package authapitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "authapitest-secret"

// Claims are carried by issued tokens
type Claims struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

type account struct {
	fullName     string
	email        string
	passwordHash []byte
}

// Server is a fake Auth API backed by httptest
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]account
	flat     bool
	gate     <-chan struct{}

	logins  atomic.Int32
	signups atomic.Int32
}

// Option configures a Server
type Option func(*Server)

// WithFlatResponses answers logins with the token and user at the top level
// instead of inside result
func WithFlatResponses() Option {
	return func(s *Server) {
		s.flat = true
	}
}

// WithAccount seeds a registered account
func WithAccount(fullName, email, password string) Option {
	return func(s *Server) {
		s.addAccount(fullName, email, password)
	}
}

// WithGate blocks every auth request until gate is closed
func WithGate(gate <-chan struct{}) Option {
	return func(s *Server) {
		s.gate = gate
	}
}

// NewServer starts a fake Auth API that is closed when the test ends
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{accounts: make(map[string]account)}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/auth/login", s.wait, s.login)
	router.POST("/api/auth/signup", s.wait, s.signup)

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// Logins returns how many login requests were received
func (s *Server) Logins() int {
	return int(s.logins.Load())
}

// Signups returns how many signup requests were received
func (s *Server) Signups() int {
	return int(s.signups.Load())
}

// ParseToken validates a token issued by this server
func (s *Server) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return token.Claims.(*Claims), nil
}

func (s *Server) addAccount(fullName, email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(email)] = account{fullName: fullName, email: email, passwordHash: hash}
}

func (s *Server) wait(c *gin.Context) {
	if s.gate == nil {
		return
	}
	select {
	case <-s.gate:
	case <-c.Request.Context().Done():
		c.Abort()
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func failure(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"isSuccess": false, "message": message, "result": nil})
}

func (s *Server) signup(c *gin.Context) {
	s.signups.Add(1)

	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" {
		failure(c, http.StatusBadRequest, "Full name, email and password are required")
		return
	}

	s.mu.Lock()
	_, exists := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if exists {
		failure(c, http.StatusConflict, "Email already registered")
		return
	}

	s.addAccount(req.FullName, req.Email, req.Password)

	c.JSON(http.StatusCreated, gin.H{"isSuccess": true, "message": "created"})
}

func (s *Server) login(c *gin.Context) {
	s.logins.Add(1)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		failure(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	claims := Claims{
		Email:    acct.email,
		FullName: acct.fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		failure(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	user := gin.H{"fullName": acct.fullName, "email": acct.email}
	if s.flat {
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"isSuccess": true,
		"message":   "Login successful",
		"result":    gin.H{"token": token, "user": user},
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hirepulse/hirepulse-backend/internal/access"
	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// TokenType distinguishes regular logins from exam-context logins.
type TokenType string

const (
	TokenTypeCandidate TokenType = "candidate"
	TokenTypeRecruiter TokenType = "recruiter"
	// TokenTypeExam binds a candidate to a single access code until the
	// exam session is finalized.
	TokenTypeExam TokenType = "exam"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType      `json:"token_type"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Role      model.UserRole `json:"role"`
	ExamCode  string         `json:"exam_code,omitempty"` // Exam tokens only
}

// sessionKey is the Redis key holding the live jti for this token.
func (c *Claims) sessionKey() string {
	if c.TokenType == TokenTypeExam {
		return config.CacheKey.ExamContextSessionKey(c.Email, c.ExamCode)
	}
	return config.CacheKey.LoginSessionKey(c.Email)
}

// AuthService handles accounts, JWTs and the Redis-backed login sessions.
type AuthService struct {
	cfg      *config.Config
	rdb      *redis.Client
	profiles *repository.ProfileRepository
	shell    *access.Shell
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(cfg *config.Config, rdb *redis.Client, profiles *repository.ProfileRepository, shell *access.Shell, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		rdb:      rdb,
		profiles: profiles,
		shell:    shell,
		log:      log.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if hash == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// SignUp creates an account and logs it in.
func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (*model.LoginResponse, error) {
	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	p := &model.Profile{
		Email:        access.NormalizeEmail(req.Email),
		Name:         req.Name,
		Role:         req.Role,
		Skills:       []string{},
		PasswordHash: hash,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.log.Info().Str("email", p.Email).Str("role", string(p.Role)).Msg("Account created")

	token, err := s.issueLoginToken(ctx, p)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, Profile: *p}, nil
}

// Login authenticates with email and password. A new login replaces the
// previous one for the same account.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	p, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	token, err := s.issueLoginToken(ctx, p)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, Profile: *p}, nil
}

// ExamLogin authenticates a candidate into one assessment. The exam must
// exist and the candidate must be invited; both checks fail closed.
func (s *AuthService) ExamLogin(ctx context.Context, req model.ExamLoginRequest) (*model.ExamLoginResponse, error) {
	exam, ok := s.shell.LookupExamByCode(ctx, req.Code)
	if !ok {
		return nil, ErrExamNotFound
	}
	p, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if p.Role != model.RoleCandidate {
		return nil, ErrCandidateOnly
	}
	if !s.shell.IsInvited(exam, p.Email) {
		s.log.Warn().Str("email", p.Email).Str("exam_code", exam.Code).Msg("Exam login rejected, not invited")
		return nil, ErrNotInvited
	}

	claims := s.newClaims(p, TokenTypeExam)
	claims.ExamCode = exam.Code
	token, err := s.sign(ctx, claims)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("email", p.Email).Str("exam_code", exam.Code).Msg("Exam context opened")
	return &model.ExamLoginResponse{Token: token, Profile: *p, Exam: exam.Briefing()}, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*model.Profile, error) {
	p, err := s.profiles.GetByEmail(ctx, access.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := s.CheckPassword(p.PasswordHash, password); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *AuthService) issueLoginToken(ctx context.Context, p *model.Profile) (string, error) {
	tt := TokenTypeCandidate
	if p.Role == model.RoleRecruiter {
		tt = TokenTypeRecruiter
	}
	return s.sign(ctx, s.newClaims(p, tt))
}

func (s *AuthService) newClaims(p *model.Profile, tt TokenType) *Claims {
	now := s.now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: tt,
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role,
	}
}

// sign produces the JWT and registers its jti as the live session.
func (s *AuthService) sign(ctx context.Context, claims *Claims) (string, error) {
	signed, err := s.signToken(claims)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, claims.sessionKey(), claims.ID, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

func (s *AuthService) signToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType == TokenTypeExam && claims.ExamCode == "" {
		return nil, errors.New("exam token without exam code")
	}
	return claims, nil
}

// ValidateSession checks that the token's jti is still the live session.
func (s *AuthService) ValidateSession(ctx context.Context, claims *Claims) error {
	stored, err := s.rdb.Get(ctx, claims.sessionKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionInvalidated
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != claims.ID {
		return ErrSessionInvalidated
	}
	return nil
}

// Logout drops the session the token belongs to.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	return s.rdb.Del(ctx, claims.sessionKey()).Err()
}

// EndExamContext revokes the exam-context login once its session is finalized.
func (s *AuthService) EndExamContext(ctx context.Context, email, code string) error {
	key := config.CacheKey.ExamContextSessionKey(access.NormalizeEmail(email), access.NormalizeAccessCode(code))
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("end exam context: %w", err)
	}
	s.log.Info().Str("email", email).Str("exam_code", code).Msg("Exam context closed")
	return nil
}

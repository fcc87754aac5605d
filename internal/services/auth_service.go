package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"medfind/internal/models"
	"medfind/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long an issued token stays valid unless configured otherwise.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the JWT payload. It identifies the store and nothing else.
type Claims struct {
	StoreID string `json:"store_id"`
	jwt.StandardClaims
}

// RegisterInput is the body of a store registration.
type RegisterInput struct {
	Name        string `json:"name" validate:"required"`
	OwnerName   string `json:"ownerName"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	Phone       string `json:"phone"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode" validate:"required"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string        `json:"token"`
	Store *models.Store `json:"store"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	storeRepo repositories.StoreRepository
	validate  *validator.Validate
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService. A non-positive tokenTTL falls back to DefaultTokenTTL.
func NewAuthService(storeRepo repositories.StoreRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		storeRepo: storeRepo,
		validate:  validator.New(),
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a store with a hashed password and signs a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Pincode = strings.TrimSpace(in.Pincode)
	if err := s.validate.Struct(in); err != nil {
		return nil, registerValidationError(err)
	}

	if _, err := s.storeRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, errEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	store := &models.Store{
		Name:        in.Name,
		OwnerName:   strings.TrimSpace(in.OwnerName),
		Email:       in.Email,
		Password:    string(hashedPassword),
		Phone:       strings.TrimSpace(in.Phone),
		AddressLine: strings.TrimSpace(in.AddressLine),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Pincode:     in.Pincode,
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, errEmailTaken
		}
		return nil, fmt.Errorf("failed to register store: %w", err)
	}

	return s.issue(store)
}

// Login checks the credentials and signs a token. Unknown email and wrong
// password fail with the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError("Email and password are required")
	}

	store, err := s.storeRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(in.Password))
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("find store: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(store.Password), []byte(in.Password)); err != nil {
		return nil, errBadCredentials
	}

	return s.issue(store)
}

// Authenticate resolves a bearer token to the store it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.Store, error) {
	storeID, err := s.ValidateToken(tokenString)
	if err != nil {
		log.Debug().Err(err).Msg("token rejected")
		return nil, errNotAuthorized
	}
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Debug().Str("store_id", storeID).Msg("token for unknown store")
			return nil, errNotAuthorized
		}
		return nil, fmt.Errorf("load store: %w", err)
	}
	return store, nil
}

// GenerateToken signs a token carrying storeID.
func (s *AuthService) GenerateToken(storeID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		StoreID: storeID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken checks signature and expiry and returns the store id.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.StoreID == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.StoreID, nil
}

func (s *AuthService) issue(store *models.Store) (*AuthResult, error) {
	token, err := s.GenerateToken(store.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Store: store}, nil
}

// registerValidationError reports missing fields before a short password.
func registerValidationError(err error) error {
	missing := validationError("Name, email, password, and pincode are required")
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return missing
	}
	for _, e := range verrs {
		if e.Tag() == "required" {
			return missing
		}
	}
	return validationError("Password must be at least 6 characters")
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("medfind-dummy-password"), bcrypt.DefaultCost)
	})
	return dummy
}

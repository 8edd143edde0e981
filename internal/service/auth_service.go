package service

import (
	"context"
	"time"

	"career-assistant-be/internal/dto"
	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/pkg/logger"
	"career-assistant-be/internal/pkg/serverutils"
	"career-assistant-be/internal/repository/specification"
	"career-assistant-be/internal/repository/unitofwork"
	"career-assistant-be/pkg/events"
	pktNats "career-assistant-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	jwtSecret      string
	tokenExpiry    time.Duration
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, jwtSecret string, tokenExpiryHours int, eventPublisher *pktNats.Publisher, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		jwtSecret:      jwtSecret,
		tokenExpiry:    time.Duration(tokenExpiryHours) * time.Hour,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users := uow.UserRepository()

	existing, err := users.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewConflict("Email already registered")
	}

	existing, err = users.FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewConflict("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         entity.UserRoleUser,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvent("USER_REGISTERED", map[string]interface{}{
		"user_id":  user.Id.String(),
		"username": user.Username,
	})

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NewUnauthorized("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.NewUnauthorized("Invalid email or password")
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	expiresAt := time.Now().Add(s.tokenExpiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User: dto.UserResponse{
			Id:        user.Id,
			Username:  user.Username,
			Email:     user.Email,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *authService) publishEvent(eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		event := events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("AuthService", "Failed to publish audit event", map[string]interface{}{
				"event": eventType,
				"error": err.Error(),
			})
		}
	}()
}

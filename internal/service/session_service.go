package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	accessTokenKeyPrefix  = "access_token"
	refreshTokenKeyPrefix = "refresh_token"
)

// SessionService tracks issued JWTs in Redis so they can be revoked before
// they expire.
type SessionService interface {
	Store(ctx context.Context, userID uuid.UUID, accessTokenID string, accessTTL time.Duration, refreshTokenID string, refreshTTL time.Duration) error
	IsAccessTokenActive(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	// ConsumeRefreshToken deletes the refresh token and reports whether it
	// was still active.
	ConsumeRefreshToken(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, accessTokenID, refreshTokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type sessionService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSessionService(redisClient *redis.Client, log *logrus.Logger) SessionService {
	return &sessionService{
		redisClient: redisClient,
		log:         log,
	}
}

func AccessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", accessTokenKeyPrefix, userID, tokenID)
}

func RefreshTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", refreshTokenKeyPrefix, userID, tokenID)
}

func (s *sessionService) Store(ctx context.Context, userID uuid.UUID, accessTokenID string, accessTTL time.Duration, refreshTokenID string, refreshTTL time.Duration) error {
	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, AccessTokenKey(userID, accessTokenID), "valid", accessTTL)
	pipe.Set(ctx, RefreshTokenKey(userID, refreshTokenID), "valid", refreshTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return err
	}
	return nil
}

func (s *sessionService) IsAccessTokenActive(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, AccessTokenKey(userID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *sessionService) ConsumeRefreshToken(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	deleted, err := s.redisClient.Del(ctx, RefreshTokenKey(userID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to delete old refresh token: %+v", err)
		return false, err
	}
	return deleted > 0, nil
}

func (s *sessionService) Revoke(ctx context.Context, accessTokenID, refreshTokenID string) error {
	patterns := []string{fmt.Sprintf("%s:*:%s", accessTokenKeyPrefix, accessTokenID)}
	if refreshTokenID != "" {
		patterns = append(patterns, fmt.Sprintf("%s:*:%s", refreshTokenKeyPrefix, refreshTokenID))
	}
	return s.deleteMatching(ctx, patterns...)
}

// RevokeAll signs a user out everywhere, used when an account is
// deactivated or deleted.
func (s *sessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.deleteMatching(ctx,
		fmt.Sprintf("%s:%s:*", accessTokenKeyPrefix, userID),
		fmt.Sprintf("%s:%s:*", refreshTokenKeyPrefix, userID),
	)
}

func (s *sessionService) deleteMatching(ctx context.Context, patterns ...string) error {
	for _, pattern := range patterns {
		keys, err := s.redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			s.log.Warnf("Failed to get token keys: %+v", err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to delete tokens: %+v", err)
			return err
		}
	}
	return nil
}

package server

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/riohdigital/digirioh-buddy-portal/internal/app"
	"github.com/riohdigital/digirioh-buddy-portal/internal/domain"
	"github.com/riohdigital/digirioh-buddy-portal/internal/errors"
	"github.com/riohdigital/digirioh-buddy-portal/internal/google"
)

type saveTokensRequest struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresInSeconds"`
}

type exchangeCodeRequest struct {
	UserID      string `json:"userId"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
}

type refreshTokenRequest struct {
	UserID string `json:"userId"`
}

type refreshTokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (s *Server) handleSaveTokens(c echo.Context) error {
	var req saveTokensRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError("InvalidInput", "malformed request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return errors.ValidationError("InvalidInput", "userId must be a UUID")
	}

	err = s.tokens.CaptureTokens(c.Request().Context(), app.CaptureRequest{
		UserID:       userID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		ExpiresIn:    req.ExpiresIn,
	})
	if err != nil {
		return mapCaptureError(userID, err)
	}

	if err := c.JSON(http.StatusOK, map[string]bool{"success": true}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Server) handleExchangeCode(c echo.Context) error {
	var req exchangeCodeRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError("InvalidInput", "malformed request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return errors.ValidationError("InvalidInput", "userId must be a UUID")
	}

	err = s.tokens.ExchangeCode(c.Request().Context(), userID, req.Code, req.RedirectURI)
	if err != nil {
		switch {
		case stderrors.Is(err, domain.ErrInvalidInput):
			return errors.ValidationError("InvalidInput", "authorization code was rejected").WithField("user_id", userID.String())
		case stderrors.Is(err, domain.ErrProviderUnavailable):
			return mapProviderError(userID, err)
		default:
			return mapCaptureError(userID, err)
		}
	}

	if err := c.JSON(http.StatusOK, map[string]bool{"success": true}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Server) handleRefreshToken(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError("InvalidInput", "malformed request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return errors.ValidationError("InvalidInput", "userId must be a UUID")
	}

	token, err := s.tokens.FreshAccessToken(c.Request().Context(), userID)
	if err != nil {
		switch {
		case stderrors.Is(err, domain.ErrUserNotFound):
			return errors.NotFoundError("UserNotFound", "user not found").WithField("user_id", userID.String())
		case stderrors.Is(err, domain.ErrNoRefreshToken):
			return errors.ValidationError("NoRefreshTokenAvailable", "no refresh token on file, user must re-authorize").WithField("user_id", userID.String())
		case stderrors.Is(err, domain.ErrRefreshTokenRevoked):
			return errors.ValidationError("RefreshTokenRevoked", "refresh token was revoked, user must re-authorize").WithField("user_id", userID.String())
		case stderrors.Is(err, domain.ErrCorruptCredential):
			return errors.InternalError("CorruptCredential", "stored refresh token cannot be decrypted", err).WithField("user_id", userID.String())
		case stderrors.Is(err, domain.ErrProviderUnavailable):
			return mapProviderError(userID, err)
		default:
			return errors.InternalError("InternalError", "token refresh failed", err).WithField("user_id", userID.String())
		}
	}

	if err := c.JSON(http.StatusOK, refreshTokenResponse{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
	}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func mapCaptureError(userID uuid.UUID, err error) error {
	switch {
	case stderrors.Is(err, domain.ErrInvalidInput):
		return errors.ValidationError("InvalidInput", "access token must not be empty").WithField("user_id", userID.String())
	case stderrors.Is(err, domain.ErrUserNotFound):
		return errors.NotFoundError("UserNotFound", "user not found").WithField("user_id", userID.String())
	case stderrors.Is(err, domain.ErrEncryptionFailed):
		return errors.InternalError("EncryptionFailed", "failed to encrypt refresh token", err).WithField("user_id", userID.String())
	default:
		return errors.InternalError("InternalError", "failed to save tokens", err).WithField("user_id", userID.String())
	}
}

// mapProviderError distinguishes a provider timeout (504) from any other
// provider failure (502).
func mapProviderError(userID uuid.UUID, err error) error {
	var tokenErr *google.TokenError
	if stderrors.As(err, &tokenErr) && tokenErr.Timeout {
		return errors.TimeoutError("ProviderUnavailable", "token endpoint did not answer in time", err).WithField("user_id", userID.String())
	}
	return errors.ExternalError("ProviderUnavailable", "token endpoint request failed", err).WithField("user_id", userID.String())
}

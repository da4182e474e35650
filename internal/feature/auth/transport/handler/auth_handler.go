// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard_backend/internal/feature/auth/domain/entity"
	"dashboard_backend/internal/feature/auth/transport/http/dto"
	"dashboard_backend/internal/feature/auth/usecase"
	"dashboard_backend/internal/platform/gate"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は指定されたユーザー名・メールアドレス・パスワードで新規ユーザーを登録します。
	Register(ctx context.Context, username, email, password string) error
	// Login はユーザーを認証し、成功時にセッションとJWTトークンを返します。
	Login(ctx context.Context, username, password, userAgent, ipAddress string) (*entity.Session, string, error)
	// Logout はセッションを失効させます。
	Logout(ctx context.Context, sessionID string) error
	// RequestPasswordReset はリセットトークンを発行します。
	RequestPasswordReset(ctx context.Context, identifier string) (string, error)
	// ResetPassword はリセットトークンを消費して新しいパスワードを設定します。
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - パスワードと確認入力の不一致はサービスを呼ばずに400を返却
// - メールアドレス形式不正は400、ユーザー名・メール重複は409を返却
// - 成功時は201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}
	if err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, usecase.ErrDuplicateUsername), errors.Is(err, usecase.ErrDuplicateEmail):
			status = http.StatusConflict
		case errors.Is(err, usecase.ErrInvalidEmail):
			status = http.StatusBadRequest
		default:
			slog.Error("signup failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
			return
		}
		slog.Warn("signup rejected", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	slog.Info("user signup successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 成功時はセッションCookieを設定し、APIクライアント向けのJWTトークンを返します。
// 認証失敗時は「ユーザー名不明」と「パスワード不一致」を区別しない401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	session, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("login failed", "username", req.Username, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": usecase.ErrInvalidCredentials.Error()})
			return
		}
		slog.Error("login failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	maxAge := int(usecase.DefaultSessionTTL.Seconds())
	c.SetCookie(gate.SessionCookie, session.ID, maxAge, "/", "", false, true)

	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{Message: "login successful", Token: token})
}

// Logout はセッションを失効させ、Cookieを破棄します。
// 未認証のクライアントに対しても常に成功を返します。
func (h *AuthHandler) Logout(c *gin.Context) {
	id, _ := c.Cookie(gate.SessionCookie)
	if err := h.auth.Logout(c.Request.Context(), id); err != nil {
		slog.Error("logout failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.SetCookie(gate.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// RequestReset はパスワードリセット要求APIエンドポイントを処理します。
// メールアドレス検索ポリシーでは一致の有無にかかわらず同じ成功応答を返します。
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req dto.ResetRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	token, err := h.auth.RequestPasswordReset(c.Request.Context(), req.Identifier)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": usecase.ErrUserNotFound.Error()})
			return
		}
		slog.Error("reset request failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset request failed"})
		return
	}
	slog.Info("password reset requested", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.ResetRequestRes{
		Message: "if the account is registered, a reset token has been issued",
		Token:   token,
	})
}

// RedeemReset はパスワードリセット実行APIエンドポイントを処理します。
// 同じトークンの2回目の消費は400で失敗します。
func (h *AuthHandler) RedeemReset(c *gin.Context) {
	var req dto.ResetRedeemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, usecase.ErrInvalidOrExpiredToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": usecase.ErrInvalidOrExpiredToken.Error()})
			return
		}
		slog.Error("password reset failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password reset failed"})
		return
	}
	slog.Info("password reset successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

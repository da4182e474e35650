// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"dashboard_backend/internal/feature/auth/domain/entity"
)

const (
	// DefaultSessionTTL はセッションの有効期間です。
	DefaultSessionTTL = 24 * time.Hour

	// DefaultResetTokenTTL はリセットトークンの有効期間です。
	DefaultResetTokenTTL = time.Hour

	// dummyDigest はユーザー未検出時のタイミング攻撃緩和用ダミーbcryptハッシュです。
	// ハッシュ比較が常に実行されることを保証します。
	dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// emailPattern は local@domain.tld 形式の簡易メールアドレス検証パターンです。
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ResetLookupPolicy はパスワードリセット要求時のアカウント検索方法を指定します。
// メールアドレス検索は列挙攻撃に対して安全（一致の有無を応答から区別できない）で、
// ユーザー名検索は未登録のユーザー名を明示的にエラーとして返します。
type ResetLookupPolicy int

const (
	// ResetByEmail はメールアドレスでアカウントを検索します（列挙攻撃対策あり）。
	ResetByEmail ResetLookupPolicy = iota

	// ResetByUsername はユーザー名でアカウントを検索します（未検出を明示的に報告）。
	ResetByUsername
)

// PasswordHasher はパスワードのハッシュ化と検証を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/hash）ではなくコンシューマー（usecase）が定義します。
type PasswordHasher interface {
	// Hash は平文パスワードからダイジェストを生成します。
	Hash(plaintext string) (string, error)

	// Verify は平文パスワードが保存済みダイジェストと一致するかを返します。
	Verify(plaintext, digest string) bool
}

// TokenSource はリセットトークンとセッションIDの生成を抽象化します。
type TokenSource interface {
	// Generate は32文字の英数字リセットトークンを生成します。
	Generate() (string, error)

	// NewSessionID は64文字の16進セッションIDを生成します。
	NewSessionID() (string, error)
}

// JWTGenerator はJWTアクセストークン生成のインターフェースを定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(username, email string) (string, error)
}

// AuthUsecase は登録・ログイン・ログアウト・パスワードリセットの
// オーケストレーションを実装します。状態は保持せず、2つのストアと
// セッションリポジトリの上で各操作を1回のload→compute→saveで完結させます。
type AuthUsecase struct {
	creds    CredentialStore
	resets   ResetTokenStore
	sessions SessionRepository
	hasher   PasswordHasher
	tokens   TokenSource
	jwt      JWTGenerator
	policy   ResetLookupPolicy

	sessionTTL time.Duration
	resetTTL   time.Duration
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(creds CredentialStore, resets ResetTokenStore, sessions SessionRepository,
	hasher PasswordHasher, tokens TokenSource, jwt JWTGenerator, policy ResetLookupPolicy) *AuthUsecase {
	return &AuthUsecase{
		creds:      creds,
		resets:     resets,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
		jwt:        jwt,
		policy:     policy,
		sessionTTL: DefaultSessionTTL,
		resetTTL:   DefaultResetTokenTTL,
	}
}

// Register は新規ユーザーを登録します。
// メールアドレスの形式検証はストアに触れる前に行い、検証失敗時にストアが
// 変更されないことを保証します。メールアドレスは省略可能で、指定された場合のみ
// 全レコードに対する一意性を検査します。
func (u *AuthUsecase) Register(ctx context.Context, username, email, password string) error {
	if email != "" && !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	digest, err := u.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return u.creds.Update(ctx, func(creds map[string]entity.Credential) error {
		if _, ok := creds[username]; ok {
			return ErrDuplicateUsername
		}
		if email != "" {
			for _, c := range creds {
				if c.Email == email {
					return ErrDuplicateEmail
				}
			}
		}
		creds[username] = entity.Credential{PasswordDigest: digest, Email: email}
		return nil
	})
}

// Login はユーザーを認証し、成功時にセッションとJWTアクセストークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもハッシュ比較を実行します。
// 「ユーザー名不明」と「パスワード不一致」は同一のエラーとして報告します。
func (u *AuthUsecase) Login(ctx context.Context, username, password, userAgent, ipAddress string) (*entity.Session, string, error) {
	creds, err := u.creds.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load credentials: %w", err)
	}

	cred, found := creds[username]
	digest := dummyDigest
	if found {
		digest = cred.PasswordDigest
	}

	// ユーザー未検出でも常にパスワードを検証
	match := u.hasher.Verify(password, digest)
	if !found || !match {
		return nil, "", ErrInvalidCredentials
	}

	id, err := u.tokens.NewSessionID()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	session := &entity.Session{
		ID:        id,
		Username:  username,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.jwt.GenerateToken(username, cred.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return session, token, nil
}

// Logout はセッションを失効させます。
// セッションが存在しない（既にログアウト済み等）場合は何もせず成功します。
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := u.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// RequestPasswordReset はリセットトークンを発行します。
// 検索方法はポリシーで切り替わります:
//   - ResetByEmail: 一致するアカウントがなくても成功として空トークンを返し、
//     アカウントの存在を応答から漏らしません。
//   - ResetByUsername: ユーザー名が未登録の場合、ErrUserNotFoundを返します。
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, identifier string) (string, error) {
	creds, err := u.creds.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}

	var username string
	switch u.policy {
	case ResetByUsername:
		if _, ok := creds[identifier]; !ok {
			return "", ErrUserNotFound
		}
		username = identifier
	default: // ResetByEmail
		if identifier != "" {
			for name, c := range creds {
				if c.Email == identifier {
					username = name
					break
				}
			}
		}
		if username == "" {
			// 列挙攻撃対策: 一致なしでも成功として扱う
			return "", nil
		}
	}

	token, err := u.tokens.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	err = u.resets.Update(ctx, func(tokens map[string]entity.ResetToken) error {
		tokens[token] = entity.ResetToken{
			Username:  username,
			ExpiresAt: time.Now().Add(u.resetTTL),
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// ResetPassword はリセットトークンを消費して新しいパスワードを設定します。
// トークンが未知・期限切れの場合はErrInvalidOrExpiredTokenを返します。
// 成功時はダイジェストを上書きし（メールアドレスは保持）、トークンを削除します。
// 同じトークンの2回目の消費は必ず失敗します。
func (u *AuthUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	tokens, err := u.resets.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reset tokens: %w", err)
	}

	rec, ok := tokens[token]
	if !ok {
		return ErrInvalidOrExpiredToken
	}
	if rec.Expired(time.Now()) {
		// 期限切れトークンはこの時点で破棄する
		if err := u.deleteToken(ctx, token); err != nil {
			return err
		}
		return ErrInvalidOrExpiredToken
	}

	digest, err := u.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = u.creds.Update(ctx, func(creds map[string]entity.Credential) error {
		cred := creds[rec.Username]
		cred.PasswordDigest = digest
		creds[rec.Username] = cred
		return nil
	})
	if err != nil {
		return err
	}

	return u.deleteToken(ctx, token)
}

// deleteToken はリセットトークンをストアから削除します。
func (u *AuthUsecase) deleteToken(ctx context.Context, token string) error {
	return u.resets.Update(ctx, func(tokens map[string]entity.ResetToken) error {
		delete(tokens, token)
		return nil
	})
}

package usecase

import (
	"context"

	"dashboard_backend/internal/feature/auth/domain/entity"
)

// CredentialStore は資格情報ドキュメント（username -> credential）の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type CredentialStore interface {
	// Load はドキュメント全体を読み込みます。バッキングストアが存在しない場合は
	// 空のマッピングとして初期化します。
	Load(ctx context.Context) (map[string]entity.Credential, error)

	// Update は read-modify-write を1つのロック区間で実行します。
	// fnがエラーを返した場合、ストアは変更されません。
	Update(ctx context.Context, fn func(map[string]entity.Credential) error) error
}

// ResetTokenStore はリセットトークンドキュメント（token -> record）の永続化層を抽象化します。
type ResetTokenStore interface {
	// Load はドキュメント全体を読み込みます。バッキングストアが存在しない場合は
	// 空のマッピングとして初期化します。
	Load(ctx context.Context) (map[string]entity.ResetToken, error)

	// Update は read-modify-write を1つのロック区間で実行します。
	// fnがエラーを返した場合、ストアは変更されません。
	Update(ctx context.Context, fn func(map[string]entity.ResetToken) error) error
}

// SessionRepository はセッションエンティティの永続化層を抽象化します。
type SessionRepository interface {
	// Create は新しいセッションをストレージに永続化します。
	Create(ctx context.Context, session *entity.Session) error

	// FindByID はIDでセッションを取得します。
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke はセッションを失効させます。
	Revoke(ctx context.Context, id string) error
}

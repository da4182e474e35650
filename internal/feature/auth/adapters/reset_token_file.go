package adapters

import (
	"context"
	"sync"

	"dashboard_backend/internal/feature/auth/domain/entity"
	"dashboard_backend/internal/feature/auth/usecase"
)

// DefaultResetTokenFile はリセットトークンドキュメントのデフォルトパスです。
const DefaultResetTokenFile = "reset_tokens.json"

// resetTokenFile はResetTokenStoreインターフェースのJSONファイル実装です。
// 資格情報ストアと同じ永続化モデル（ファイル丸ごと置き換え）を持ちます。
type resetTokenFile struct {
	path string
	mu   sync.Mutex
}

// resetTokenFileがResetTokenStoreを実装していることをコンパイル時に検証します。
var _ usecase.ResetTokenStore = (*resetTokenFile)(nil)

// NewResetTokenFile は指定されたパスでresetTokenFileの新しいインスタンスを生成します。
// パスが空の場合はDefaultResetTokenFileを使用します。
func NewResetTokenFile(path string) *resetTokenFile {
	if path == "" {
		path = DefaultResetTokenFile
	}
	return &resetTokenFile{path: path}
}

// Load はドキュメント全体を読み込みます。ファイルが存在しない場合は
// 空のマッピングとして初期化します。
func (s *resetTokenFile) Load(_ context.Context) (map[string]entity.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadDocument[entity.ResetToken](s.path)
}

// Update はロックを保持したままload→fn→saveを実行します。
// fnがエラーを返した場合、ファイルは書き換えません。
func (s *resetTokenFile) Update(_ context.Context, fn func(map[string]entity.ResetToken) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := loadDocument[entity.ResetToken](s.path)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return saveDocument(s.path, doc)
}

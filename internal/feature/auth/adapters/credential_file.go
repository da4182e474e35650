package adapters

import (
	"context"
	"sync"

	"dashboard_backend/internal/feature/auth/domain/entity"
	"dashboard_backend/internal/feature/auth/usecase"
)

// DefaultCredentialFile は資格情報ドキュメントのデフォルトパスです。
const DefaultCredentialFile = "users.json"

// credentialFile はCredentialStoreインターフェースのJSONファイル実装です。
// ドキュメント全体をファイル丸ごと置き換えで永続化します。
type credentialFile struct {
	path string
	mu   sync.Mutex
}

// credentialFileがCredentialStoreを実装していることをコンパイル時に検証します。
var _ usecase.CredentialStore = (*credentialFile)(nil)

// NewCredentialFile は指定されたパスでcredentialFileの新しいインスタンスを生成します。
// パスが空の場合はDefaultCredentialFileを使用します。
func NewCredentialFile(path string) *credentialFile {
	if path == "" {
		path = DefaultCredentialFile
	}
	return &credentialFile{path: path}
}

// Load はドキュメント全体を読み込みます。ファイルが存在しない場合は
// 空のマッピングとして初期化します。
func (s *credentialFile) Load(_ context.Context) (map[string]entity.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadDocument[entity.Credential](s.path)
}

// Update はロックを保持したままload→fn→saveを実行します。
// 同一プロセス内の並行呼び出しによる更新の取りこぼしを防ぎます。
// fnがエラーを返した場合、ファイルは書き換えません。
func (s *credentialFile) Update(_ context.Context, fn func(map[string]entity.Credential) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := loadDocument[entity.Credential](s.path)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return saveDocument(s.path, doc)
}

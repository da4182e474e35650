// Package adapters はauthフィーチャーのストア実装を提供します。
package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// loadDocument はJSONドキュメント（文字列キーのマッピング）をファイルから読み込みます。
// ファイルが存在しない場合は空のドキュメントで初期化して作成します。
// I/O障害はそのまま呼び出し元へ伝播します（内部で握りつぶしません）。
func loadDocument[T any](path string) (map[string]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := make(map[string]T)
		if err := saveDocument(path, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := make(map[string]T)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return doc, nil
}

// saveDocument はドキュメント全体を一時ファイルへ書き出してからrenameで差し替えます。
// 読み手に部分的な書き込みが見えることはありません。
func saveDocument[T any](path string, doc map[string]T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

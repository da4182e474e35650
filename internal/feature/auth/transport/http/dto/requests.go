// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq は/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupReq は/signupエンドポイントのリクエストボディを表します。
// パスワードの確認入力はサービス呼び出し前にハンドラー側で照合します。
type SignupReq struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ResetRequestReq は/password-reset/requestエンドポイントのリクエストボディを表します。
// Identifierはポリシーに応じてユーザー名またはメールアドレスです。
type ResetRequestReq struct {
	Identifier string `json:"identifier" binding:"required"`
}

// ResetRedeemReq は/password-reset/redeemエンドポイントのリクエストボディを表します。
type ResetRedeemReq struct {
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRes はログイン成功時のレスポンスを表します。
type LoginRes struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ResetRequestRes はリセット要求成功時のレスポンスを表します。
// 本来トークンはメール等の帯域外で届けるべきものですが、このシステムでは
// 意図的な簡略化としてレスポンスに含めます。
type ResetRequestRes struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

package transaction

import "context"

// Tx はストレージのアトミックトランザクションを表すインターフェース
// 座席数の変更と予約レコードの変更は必ず同一のTxで確定させる
type Tx interface {
	// Commit はトランザクションを確定する
	Commit() error
	// Rollback はトランザクションを破棄する
	Rollback() error
}

// Manager はトランザクションの開始を抽象化するインターフェース
// ドメイン層がインフラ層（sqlx等）に依存しないための境界
type Manager interface {
	// Begin は新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}

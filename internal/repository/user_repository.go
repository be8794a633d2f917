package repository

import (
	"context"

	"invitation/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。なければErrNotFound
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。なければErrNotFound
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 最終ログインやアクティブ状態の更新
	Update(ctx context.Context, user *model.User) error
	// ロール別の人数（nilなら全員）
	Count(ctx context.Context, role *model.Role) (int64, error)
}

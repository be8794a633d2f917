package repository

import (
	"errors"
	"strings"

	repo "invitation/internal/repository"

	"gorm.io/gorm"
)

// gormのエラーをrepository層のエラーに寄せる。
// TranslateErrorが効かないドライバ向けにメッセージも見る。
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicate
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key") {
		return repo.ErrDuplicate
	}
	return err
}

func normalizePage(page, limit, defLimit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = defLimit
	}
	return page, limit
}

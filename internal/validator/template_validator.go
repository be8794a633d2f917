package validator

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"invitation/internal/domain/model"
	"invitation/internal/repository"
	"invitation/internal/usecase"
)

var maxTemplatePrice = model.MustMoney("999.99")

type templateValidator struct {
	categories repository.CategoryRepository
}

func NewTemplateValidator(categories repository.CategoryRepository) usecase.TemplateValidator {
	return &templateValidator{categories: categories}
}

// 作成・更新で同じルール
func (v *templateValidator) ValidateTemplate(ctx context.Context, in usecase.TemplateInput) error {
	ve := usecase.NewValidationError()

	requiredMax(ve, "title", in.Title, 255, "Template title is required.", "Template title cannot exceed 255 characters.")

	switch {
	case in.Price == nil:
		ve.Add("price", "Template price is required.")
	case in.Price.IsNegative():
		ve.Add("price", "Template price cannot be negative.")
	case in.Price.GreaterThan(maxTemplatePrice.Decimal):
		ve.Add("price", "Template price cannot exceed $999.99.")
	}

	// category_idはDBに存在すること
	if in.CategoryID <= 0 {
		ve.Add("category_id", "Please select a category.")
	} else if _, err := v.categories.FindByID(ctx, in.CategoryID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		ve.Add("category_id", "The selected category is invalid.")
	}

	if utf8.RuneCountInString(in.Thumbnail) > 500 {
		ve.Add("thumbnail", "Thumbnail cannot exceed 500 characters.")
	}
	for _, img := range in.PreviewImages {
		if strings.TrimSpace(img) == "" || utf8.RuneCountInString(img) > 500 {
			ve.Add("preview_images", "Preview images must be non-empty paths of at most 500 characters.")
			break
		}
	}
	if in.Status != "" && !in.Status.Valid() {
		ve.Add("status", "Status must be active, inactive, or pending.")
	}

	return ve.OrNil()
}

package handler

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nabaa/newsroom/internal/domain"
)

var registerOnce sync.Once

// RegisterValidators adds the articlestatus and role binding tags to gin's validator.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("articlestatus", func(fl validator.FieldLevel) bool {
			return domain.ArticleStatus(fl.Field().String()).Valid()
		}); err != nil {
			return
		}
		err = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return domain.Role(fl.Field().String()).Valid()
		})
	})
	return err
}

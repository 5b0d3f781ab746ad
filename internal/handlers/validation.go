package handlers

import (
	"reflect"
	"sync"
	"time"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators teaches gin's validator about decimal amounts and the
// ledger's date formats. Safe to call more than once.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("calendar_date", layoutValidator(domain.DateLayout))
		_ = v.RegisterValidation("clock_time", layoutValidator(domain.TimeLayout))
		_ = v.RegisterValidation("year_month", layoutValidator("2006-01"))
	})
}

// decimalValue exposes the sign of a decimal to tags such as gt=0 and gte=0.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.Sign()
	}
	return nil
}

func layoutValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}

package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/salesapp/client/internal/domain/trade"
)

// RegisterValidators installs custom binding validators. Call once before
// routes are registered.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("orderstatus", validOrderStatus)
	}
}

func validOrderStatus(fl validator.FieldLevel) bool {
	return trade.OrderStatus(fl.Field().String()).IsValid()
}

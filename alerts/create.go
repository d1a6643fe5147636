package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/baraka/dse2db/database"
	"github.com/baraka/dse2db/model"
)

// CreateAlertInput is a request to register a new price alert.
type CreateAlertInput struct {
	Symbol      string  `json:"symbol" validate:"required"`
	TargetPrice float64 `json:"targetPrice" validate:"required,gt=0"`
	Condition   string  `json:"condition" validate:"required,oneof=ABOVE BELOW"`
	FCMToken    string  `json:"fcmToken"`
}

var validate = validator.New()

// Create validates the input and stores a new active alert, returning it
// with its generated id.
func Create(ctx context.Context, store database.Store, in CreateAlertInput) (*model.Alert, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid alert: %w", err)
	}

	alert := model.Alert{
		ID:          uuid.NewString(),
		Symbol:      strings.ToUpper(strings.TrimSpace(in.Symbol)),
		TargetPrice: in.TargetPrice,
		Condition:   in.Condition,
		Status:      model.AlertActive,
		FCMToken:    in.FCMToken,
		CreatedAt:   time.Now(),
	}
	if err := store.CreateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("store alert: %w", err)
	}
	return &alert, nil
}

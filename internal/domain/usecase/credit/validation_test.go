package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	"github.com/blockforge/credit-ledger/internal/domain/port/usecase"
)

func TestValidateUserID(t *testing.T) {
	assert.NoError(t, validateUserID("user-1"))
	assert.ErrorIs(t, validateUserID(""), errs.ErrInvalidUserID)
}

func TestValidateTopUpAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		wantErr error
	}{
		{"positive amount", 500, nil},
		{"zero amount", 0, nil},
		{"negative amount", -1, errs.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTopUpAmount(tt.amount)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFulfillRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     usecase.FulfillRequest
		wantErr error
	}{
		{"session id only", usecase.FulfillRequest{SessionID: "cs_123"}, nil},
		{"user id only", usecase.FulfillRequest{UserID: "user-1"}, nil},
		{"both provided", usecase.FulfillRequest{SessionID: "cs_123", UserID: "user-1"}, errs.ErrInvalidFulfillRequest},
		{"neither provided", usecase.FulfillRequest{}, errs.ErrInvalidFulfillRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFulfillRequest(tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/usecase"
)

func TestTransferRequest_ToUseCaseInput(t *testing.T) {
	req := &TransferRequest{
		RecipientEmail: "bob@example.com",
		Amount:         decimal.RequireFromString("12.34"),
	}

	got := req.ToUseCaseInput("acc-1")

	if got.SenderID != "acc-1" || got.RecipientEmail != "bob@example.com" {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
	if !got.Amount.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("expected amount 12.34, got %s", got.Amount)
	}
}

func TestTransferRequest_UnmarshalAmountForms(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string amount", `{"recipient_email":"bob@example.com","amount":"99.50"}`, "99.50"},
		{"numeric amount", `{"recipient_email":"bob@example.com","amount":99.5}`, "99.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TransferRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if !req.Amount.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("expected amount %s, got %s", tt.want, req.Amount)
			}
		})
	}
}

func TestUpdateProfileRequest_ToUseCaseInput(t *testing.T) {
	name := "Alicia"
	req := &UpdateProfileRequest{Name: &name}

	got := req.ToUseCaseInput("user-1")
	want := usecase.UpdateUserInput{ID: "user-1", Name: &name}

	if got.ID != want.ID || got.Name != want.Name || got.Email != nil || got.Password != nil {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

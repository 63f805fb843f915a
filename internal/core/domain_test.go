package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGoalDraftValidate(t *testing.T) {
	cases := []struct {
		name  string
		draft GoalDraft
		err   error
	}{
		{"ok", GoalDraft{Name: "Emergency Fund", TargetAmount: decimal.NewFromInt(10_000_000)}, nil},
		{"empty name", GoalDraft{Name: "", TargetAmount: decimal.NewFromInt(1)}, ErrEmptyName},
		{"blank name", GoalDraft{Name: "   \t", TargetAmount: decimal.NewFromInt(1)}, ErrEmptyName},
		{"zero target", GoalDraft{Name: "a", TargetAmount: decimal.Zero}, ErrInvalidAmount},
		{"negative target", GoalDraft{Name: "a", TargetAmount: decimal.NewFromInt(-5)}, ErrInvalidAmount},
		{"target below one cent", GoalDraft{Name: "a", TargetAmount: decimal.RequireFromString("0.001")}, ErrInvalidAmount},
		{"target rounding up to one cent", GoalDraft{Name: "a", TargetAmount: decimal.RequireFromString("0.005")}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if tc.err == nil {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.err) || !errors.Is(err, ErrValidation) {
				t.Fatalf("expected %v wrapped as validation error, got %v", tc.err, err)
			}
		})
	}
}

func TestValidateDeposit(t *testing.T) {
	if err := ValidateDeposit(decimal.RequireFromString("0.01")); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1), decimal.RequireFromString("0.004"), decimal.RequireFromString("0.001")} {
		if err := ValidateDeposit(amount); !errors.Is(err, ErrValidation) {
			t.Fatalf("amount %s: expected validation error, got %v", amount, err)
		}
	}
}

func TestGoalPatchValidate(t *testing.T) {
	cases := []struct {
		name  string
		patch GoalPatch
		field string
	}{
		{"empty patch", GoalPatch{}, ""},
		{"zero current", GoalPatch{CurrentAmount: Some(decimal.Zero)}, ""},
		{"clear deadline", GoalPatch{Deadline: Some[*Date](nil)}, ""},
		{"blank name", GoalPatch{Name: Some("  ")}, "name"},
		{"zero target", GoalPatch{TargetAmount: Some(decimal.Zero)}, "targetAmount"},
		{"sub-cent target", GoalPatch{TargetAmount: Some(decimal.RequireFromString("0.004"))}, "targetAmount"},
		{"negative current", GoalPatch{CurrentAmount: Some(decimal.NewFromInt(-1))}, "currentAmount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.patch.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected validation error on %s, got %v", tc.field, err)
			}
		})
	}
}

func TestTransactionDraftValidate(t *testing.T) {
	good := TransactionDraft{
		Amount:   decimal.NewFromInt(50000),
		Category: "Food",
		Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Type:     Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []TransactionDraft{
		{Amount: decimal.Zero, Date: good.Date, Type: Expense},
		{Amount: decimal.RequireFromString("0.004"), Date: good.Date, Type: Expense},
		{Amount: decimal.NewFromInt(1), Date: good.Date, Type: "TRANSFER"},
		{Amount: decimal.NewFromInt(1), Type: Income},
	}
	for i, d := range bads {
		if err := d.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestUserDraftValidate(t *testing.T) {
	bads := []UserDraft{
		{Username: "", Email: "a@b.c", Password: "x"},
		{Username: "u", Email: " ", Password: "x"},
		{Username: "u", Email: "a@b.c", Password: ""},
	}
	for i, d := range bads {
		if err := d.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
	if err := (UserDraft{Username: "u", Email: "a@b.c", Password: "x"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("disk I/O error")
	storageErr := error(&StorageError{Op: "execute", Err: cause})
	if !errors.Is(storageErr, ErrStorage) || !errors.Is(storageErr, cause) {
		t.Fatalf("storage error should match ErrStorage and its cause: %v", storageErr)
	}

	notFound := error(&NotFoundError{Entity: "goal", ID: int64(7)})
	if !errors.Is(notFound, ErrNotFound) || errors.Is(notFound, ErrValidation) {
		t.Fatalf("unexpected not found matching: %v", notFound)
	}
	if notFound.Error() != "goal 7 not found" {
		t.Fatalf("unexpected message %q", notFound.Error())
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, 12, 31)
	b, err := json.Marshal(struct {
		Deadline *Date `json:"deadline"`
	}{&d})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"deadline":"2025-12-31"}` {
		t.Fatalf("unexpected encoding %s", b)
	}

	var back struct {
		Deadline *Date `json:"deadline"`
	}
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Deadline == nil || !back.Deadline.Equal(d.Time) {
		t.Fatalf("unexpected deadline %v", back.Deadline)
	}

	if _, err := ParseDate("31/12/2025"); err == nil {
		t.Fatal("expected parse error")
	}
}

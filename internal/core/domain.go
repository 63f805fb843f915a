package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// DateLayout is the stored representation of a Date.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Goal struct {
		ID            int64           `json:"id"`
		Name          string          `json:"name"`
		TargetAmount  decimal.Decimal `json:"targetAmount"`
		CurrentAmount decimal.Decimal `json:"currentAmount"`
		Deadline      *Date           `json:"deadline"`
		UserID        *int64          `json:"userId"`
		CreatedAt     time.Time       `json:"createdAt"`
		UpdatedAt     time.Time       `json:"updatedAt"`
	}

	// GoalDraft carries the caller-supplied fields of a new goal.
	GoalDraft struct {
		Name         string
		TargetAmount decimal.Decimal
		Deadline     *Date
		UserID       *int64
	}

	// GoalPatch lists the fields an update rewrites. Unset fields keep
	// their stored value; a set Deadline with a nil Value clears it.
	GoalPatch struct {
		Name          Optional[string]
		TargetAmount  Optional[decimal.Decimal]
		CurrentAmount Optional[decimal.Decimal]
		Deadline      Optional[*Date]
	}

	Account struct {
		ID             int64           `json:"id"`
		Name           string          `json:"name"`
		Bank           string          `json:"bank"`
		AccountNumber  string          `json:"accountNumber"`
		CurrentBalance decimal.Decimal `json:"currentBalance"`
		CreatedAt      time.Time       `json:"createdAt"`
		UpdatedAt      time.Time       `json:"updatedAt"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		AccountID   *int64          `json:"accountId"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        time.Time       `json:"date"`
		Type        TransactionType `json:"type"`
		CreatedAt   time.Time       `json:"createdAt"`
		UpdatedAt   time.Time       `json:"updatedAt"`
	}

	TransactionDraft struct {
		AccountID   *int64
		Amount      decimal.Decimal
		Category    string
		Description string
		Date        time.Time
		Type        TransactionType
	}

	User struct {
		ID           int64     `json:"id"`
		Username     string    `json:"username"`
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		Phone        *string   `json:"phone"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}

	UserDraft struct {
		Username string
		Name     string
		Email    string
		Password string
		Phone    *string
	}
)

// Optional marks whether a value was supplied at all.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a supplied Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// positiveMinorUnits reports whether d is still positive at stored precision.
func positiveMinorUnits(d decimal.Decimal) bool {
	return ToMinorUnits(d) > 0
}

func (g GoalDraft) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if !positiveMinorUnits(g.TargetAmount) {
		return &ValidationError{Field: "targetAmount", Err: ErrInvalidAmount}
	}
	return nil
}

// Validate checks the supplied fields of an update against the same rules
// as a new goal. CurrentAmount may be zero but not negative.
func (p GoalPatch) Validate() error {
	if p.Name.Set && strings.TrimSpace(p.Name.Value) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if p.TargetAmount.Set && !positiveMinorUnits(p.TargetAmount.Value) {
		return &ValidationError{Field: "targetAmount", Err: ErrInvalidAmount}
	}
	if p.CurrentAmount.Set && ToMinorUnits(p.CurrentAmount.Value) < 0 {
		return &ValidationError{Field: "currentAmount", Err: ErrInvalidAmount}
	}
	return nil
}

// ValidateDeposit guards AddAmount: only deposits worth at least one minor
// unit once rounded are accepted.
func ValidateDeposit(amount decimal.Decimal) error {
	if !positiveMinorUnits(amount) {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	return nil
}

func (t TransactionDraft) Validate() error {
	if !positiveMinorUnits(t.Amount) {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	if !t.Type.Valid() {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	return nil
}

func (u UserDraft) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return &ValidationError{Field: "username", Err: ErrEmptyName}
	}
	if strings.TrimSpace(u.Email) == "" {
		return &ValidationError{Field: "email", Err: ErrEmptyEmail}
	}
	if u.Password == "" {
		return &ValidationError{Field: "password", Err: ErrEmptyPassword}
	}
	return nil
}

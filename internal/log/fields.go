package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldUserID    = "user_id"
	FieldGoalID    = "goal_id"
	FieldAccountID = "account_id"
	FieldMonths    = "period_months"
	FieldPublished = "published"
	FieldDuration  = "duration_ms"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
	ComponentReport = "report"
)

// Operations defines standard operation names
const (
	OpDeposit = "deposit"
	OpSummary = "summary"
	OpReport  = "report"
	OpPublish = "publish"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error message; nil errors are skipped.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithUser adds the owner filter; nil means every owner.
func (f LogFields) WithUser(userID *int64) LogFields {
	if userID == nil {
		f[FieldUserID] = "all"
	} else {
		f[FieldUserID] = *userID
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

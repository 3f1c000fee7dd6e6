package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldPeriodID    = "period_id"
	FieldConflictID  = "conflict_period_id"
	FieldSubjectID   = "subject_id"
	FieldShortName   = "short_name"
	FieldDate        = "date"
	FieldFrom        = "from"
	FieldTo          = "to"
	FieldMinutes     = "minutes"
	FieldPrevious    = "previous_minutes"
	FieldDelta       = "delta_minutes"
	FieldMode        = "mode"
	FieldPath        = "path"
	FieldRows        = "rows"
	FieldWeeks       = "weeks"
	FieldDBPath      = "db_path"
	FieldBackend     = "backend"
	FieldCommand     = "command"
	FieldDurationMs  = "duration_ms"
	FieldMatchCount  = "match_count"
	FieldScore       = "score"
	FieldDescription = "description"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentCLI       = "cli"
	ComponentStorage   = "storage"
	ComponentBackend   = "backend"
	ComponentPeriod    = "period"
	ComponentSubject   = "subject"
	ComponentLedger    = "ledger"
	ComponentAggregate = "aggregate"
	ComponentReport    = "report"
	ComponentExport    = "export"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpSet      = "set"
	OpMark     = "mark"
	OpResolve  = "resolve"
	OpExport   = "export"
	OpMigrate  = "migrate"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithCell adds the fields identifying one ledger cell
func (f LogFields) WithCell(subjectID int64, date string, minutes int64) LogFields {
	f[FieldSubjectID] = subjectID
	f[FieldDate] = date
	f[FieldMinutes] = minutes
	return f
}

// WithRange adds interval bounds
func (f LogFields) WithRange(from, to string) LogFields {
	f[FieldFrom] = from
	f[FieldTo] = to
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

package directory

// Kind classifies business-rule failures.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindSelfDelete
	KindInvalidCredentials
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindSelfDelete:
		return "cannot delete yourself"
	case KindInvalidCredentials:
		return "invalid credentials"
	default:
		return "unknown error"
	}
}

// Error is a business-rule failure with a message that is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches any *Error of the same kind when target is one of the sentinel errors below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrSelfDelete         = &Error{Kind: KindSelfDelete}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
)

func validationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func conflictError(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func notFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

package astrocore

import "fmt"

// ErrorKind enumerates the abstract error categories shared by every package
// in this module. Callers switch on an Error's Kind field rather than compare
// error strings.
type ErrorKind uint8

const (
	// ErrNotHyperbolic is returned when a B-Plane is requested on an orbit
	// whose eccentricity is not greater than one.
	ErrNotHyperbolic ErrorKind = iota + 1
	// ErrSingular is returned when a requested Jacobian inversion fails.
	ErrSingular
	// ErrBadInvariant is returned when the targeter is given an invariant
	// other than VX, VY or VZ.
	ErrBadInvariant
	// ErrMaxIterReached is returned when a Newton iteration did not converge
	// and convergence was mandatory.
	ErrMaxIterReached
	// ErrCorrectionIneffective is returned when the B-Plane residual grows
	// between Newton iterations while LTOF targeting is armed.
	ErrCorrectionIneffective
	// ErrDynamicsFailure is returned when a Dynamics evaluation is non-finite
	// or otherwise fails.
	ErrDynamicsFailure
	// ErrOutOfBounds is returned when a trajectory is evaluated outside its
	// covered interval.
	ErrOutOfBounds
	// ErrInsufficientTriggers is returned when an event search does not find
	// enough matches.
	ErrInsufficientTriggers
	// ErrNumericDomain is returned by a hyperdual analytic lift given an
	// input outside its domain (e.g. sqrt of a negative real part).
	ErrNumericDomain
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNotHyperbolic:
		return "NotHyperbolic"
	case ErrSingular:
		return "Singular"
	case ErrBadInvariant:
		return "BadInvariant"
	case ErrMaxIterReached:
		return "MaxIterReached"
	case ErrCorrectionIneffective:
		return "CorrectionIneffective"
	case ErrDynamicsFailure:
		return "DynamicsFailure"
	case ErrOutOfBounds:
		return "OutOfBounds"
	case ErrInsufficientTriggers:
		return "InsufficientTriggers"
	case ErrNumericDomain:
		return "NumericDomain"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned throughout astrocore and its
// subpackages. It carries an ErrorKind so callers can branch on the failure
// category instead of matching message text.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is an *Error with the same Kind, so callers can
// use errors.Is(err, astrocore.NewError(astrocore.ErrSingular, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds an *Error of the given kind.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// NewErrorf builds an *Error of the given kind with a formatted message.
func NewErrorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

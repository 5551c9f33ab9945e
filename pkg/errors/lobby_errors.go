package errors

import "fmt"

var (
	// Domain errors returned by the store, guard and lobby service
	ErrLobbyNotFound      = NotFound("lobby not found")
	ErrUserNotFound       = NotFound("user not found")
	ErrAlreadyMember      = New(CodeAlreadyMember, "user is already a member of this lobby")
	ErrLobbyFull          = New(CodeLobbyFull, "lobby is full")
	ErrNotMember          = NotFound("user is not a member of this lobby")
	ErrNotHost            = Forbidden("only the host can perform this action")
	ErrWrongPassword      = Forbidden("invalid lobby password")
	ErrUnauthenticated    = Unauthorized("authentication required")
	ErrInvalidCredentials = Unauthorized("invalid credentials")
	ErrPasswordRequired   = InvalidArg("private lobbies require a password")
	ErrPasswordNotAllowed = InvalidArg("public lobbies cannot carry a password")
	ErrHostCannotKick     = InvalidArg("host cannot remove themselves")
	ErrNicknameTaken      = AlreadyExists("nickname or email already exists")
	ErrLockTimeout        = New(CodeDeadlineExceeded, "lobby is busy, try again")
	ErrRequestCanceled    = New(CodeCanceled, "request canceled before it was applied")
)

func ErrCapacityBelowMembers(members int) error {
	return New(CodeInvalidArgument, fmt.Sprintf("max_players cannot be lower than the current member count (%d)", members))
}

func ErrStorage(cause error) error {
	return Wrap(CodeInternal, "storage failure", cause)
}

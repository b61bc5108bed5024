package identityerrors

import (
	"net/http"

	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"
)

var (
	ErrIdentityNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidIdentityID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrHandleTaken = apperror.New(
		apperror.CodeConflict,
		"username or email already registered",
		http.StatusConflict,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be one of admin, employee, intern",
		http.StatusBadRequest,
	)
	ErrAlreadyActive = apperror.New(
		apperror.CodeInvalidState,
		"user is already active",
		http.StatusBadRequest,
	)
)

package jobapplicationerrors

import (
	"net/http"

	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"
)

var (
	ErrApplicationNotFound = apperror.New(
		apperror.CodeNotFound,
		"job application not found",
		http.StatusNotFound,
	)
	ErrInvalidApplicationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid job application id",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"job application is not pending",
		http.StatusBadRequest,
	)
)

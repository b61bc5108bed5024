package workhourserrors

import (
	"net/http"

	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"
)

var (
	ErrWorkHoursNotFound = apperror.New(
		apperror.CodeNotFound,
		"work hours entry not found",
		http.StatusNotFound,
	)
	ErrInvalidWorkHoursID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid work hours id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidHours = apperror.New(
		apperror.CodeInvalidInput,
		"hours_worked must be a number between 0 and 24",
		http.StatusBadRequest,
	)
)

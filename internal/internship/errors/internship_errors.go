package internshiperrors

import (
	"net/http"

	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"
)

var (
	ErrInternshipNotFound = apperror.New(
		apperror.CodeNotFound,
		"internship not found",
		http.StatusNotFound,
	)
	ErrInvalidInternshipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid internship id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrUnknownStatus = apperror.New(
		apperror.CodeInvalidInput,
		"unknown internship status",
		http.StatusBadRequest,
	)
)

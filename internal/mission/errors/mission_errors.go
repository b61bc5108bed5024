package missionerrors

import (
	"net/http"

	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"
)

var (
	ErrMissionNotFound = apperror.New(
		apperror.CodeNotFound,
		"mission not found",
		http.StatusNotFound,
	)
	ErrInvalidMissionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid mission id",
		http.StatusBadRequest,
	)
	ErrInvalidDeadline = apperror.New(
		apperror.CodeInvalidInput,
		"deadline must be a valid date",
		http.StatusBadRequest,
	)
	ErrUnknownAssignee = apperror.New(
		apperror.CodeInvalidInput,
		"assignee does not exist",
		http.StatusBadRequest,
	)
	ErrUnknownSupervisor = apperror.New(
		apperror.CodeInvalidInput,
		"supervisor does not exist",
		http.StatusBadRequest,
	)
)

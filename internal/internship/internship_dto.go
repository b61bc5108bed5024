package internship

type CreateInternshipRequest struct {
	InternID     string `json:"intern_id" binding:"required,uuid"`
	SupervisorID string `json:"supervisor_id" binding:"required,uuid"`
	StartDate    string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type InternshipResponse struct {
	ID           string `json:"id"`
	InternID     string `json:"intern_id"`
	SupervisorID string `json:"supervisor_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

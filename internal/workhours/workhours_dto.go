package workhours

type CreateWorkHoursRequest struct {
	OwnerID     string `json:"owner_id" binding:"omitempty,uuid"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	HoursWorked string `json:"hours_worked" binding:"required"`
}

type UpdateWorkHoursRequest struct {
	Date        *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	HoursWorked *string `json:"hours_worked"`
}

type WorkHoursResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Date        string `json:"date"`
	HoursWorked string `json:"hours_worked"`
	CreatedAt   string `json:"created_at"`
}

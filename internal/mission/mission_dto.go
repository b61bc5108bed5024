package mission

type CreateMissionRequest struct {
	Title        string `json:"title" binding:"required,max=255"`
	Description  string `json:"description"`
	AssignedToID string `json:"assigned_to_id" binding:"required,uuid"`
	SupervisorID string `json:"supervisor_id" binding:"required,uuid"`
	Deadline     string `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateMissionRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
}

type MissionResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	AssignedToID string  `json:"assigned_to_id"`
	SupervisorID string  `json:"supervisor_id"`
	Deadline     *string `json:"deadline,omitempty"`
	Completed    bool    `json:"completed"`
	CreatedAt    string  `json:"created_at"`
}

package jobapplication

type CreateJobApplicationRequest struct {
	ApplicationType string `json:"application_type" binding:"required,oneof=employee intern"`
	Position        string `json:"position" binding:"required,max=255"`
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"omitempty,max=30"`
	Education       string `json:"education"`
	Experience      string `json:"experience"`
	Motivation      string `json:"motivation"`
	CVFile          string `json:"cv_file" binding:"omitempty,max=512"`
}

type JobApplicationResponse struct {
	ID              string  `json:"id"`
	OwnerID         *string `json:"owner_id,omitempty"`
	ApplicationType string  `json:"application_type"`
	Position        string  `json:"position"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone,omitempty"`
	Education       string  `json:"education,omitempty"`
	Experience      string  `json:"experience,omitempty"`
	Motivation      string  `json:"motivation,omitempty"`
	CVFile          string  `json:"cv_file,omitempty"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
}

package dto

type HabitRequest struct {
	Name string `json:"name"`
}

type HabitResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

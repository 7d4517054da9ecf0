package entity

type UpdateApprovalRequest struct {
	Status string `json:"status" validate:"required,oneof=request approve reject"`
}

type NotificationSettingsRequest struct {
	Settings map[string]bool `json:"settings" validate:"required,min=1"`
}

type FCMTokenRequest struct {
	Token string `json:"token" validate:"required,max=4096"`
}

type CreateManagerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,oneof=manager admin"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=manager admin"`
}

// ErrorResponse error текст HTTP статуса, message пояснение для человека
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type UserListResponse struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Unread        int            `json:"unread"`
}

type ManagerListResponse struct {
	Managers []Manager `json:"managers"`
	Total    int       `json:"total"`
}

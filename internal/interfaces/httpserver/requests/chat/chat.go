package chat

// CreateChatRequest creates a new chat for a caller-supplied user identifier.
type CreateChatRequest struct {
	UserID string `json:"uid" binding:"required"`
	Title  string `json:"title" binding:"omitempty,max=256"`
}

// UpdateChatRequest renames a chat.
type UpdateChatRequest struct {
	Title string `json:"title" binding:"required,max=256"`
}

// CreateMessageRequest appends a turn to a chat.
type CreateMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Sender  string `json:"sender" binding:"required,oneof=user assistant"`
	ImageID string `json:"image_id" binding:"omitempty"`
}

// ListMessagesQuery paginates a chat's messages.
type ListMessagesQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

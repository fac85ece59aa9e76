package chat

import (
	domainchat "github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
)

// ChatListResponse lists a user's chats with the total count.
type ChatListResponse struct {
	Chats []*domainchat.Chat `json:"chats"`
	Total int64              `json:"total"`
}

// MessageListResponse is one page of a chat's messages.
type MessageListResponse struct {
	Messages []*domainchat.Message `json:"messages"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	Limit    int                   `json:"limit"`
}

// ImageListResponse lists registered images.
type ImageListResponse struct {
	Images []*domainchat.Image `json:"images"`
	Total  int64               `json:"total"`
}

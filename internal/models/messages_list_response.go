package models

type MessageListResponse struct {
	Messages []Message `json:"messages"`
	Total    int64     `json:"total"`
}

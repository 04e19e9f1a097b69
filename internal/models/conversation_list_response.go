package models

type ConversationListResponse struct {
	Conversations []ConversationView `json:"conversations"`
	Total         int64              `json:"total"`
}

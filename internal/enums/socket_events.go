package enums

const (
	SOCKET_EVENT_SEND_MESSAGE  = "send_message"
	SOCKET_EVENT_NEW_MESSAGE   = "new_message"
	SOCKET_EVENT_READ_MESSAGE  = "read_message"
	SOCKET_EVENT_CONVERSATIONS = "conversations"
	SOCKET_EVENT_UNREAD_COUNT  = "unread_count"
)

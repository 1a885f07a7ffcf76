package mongodb

const (
	UsersCollection    = "users"
	MessagesCollection = "messages"
)

package models

import "time"

// Sender автор сообщения.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message сообщение в переписке пользователя с персонажем.
type Message struct {
	ID          int64
	UserID      int64
	CharacterID int
	Text        string
	Sender      Sender
	Timestamp   time.Time
}

// ChatReply ответ персонажа на сообщение пользователя.
type ChatReply struct {
	Text      string // Текст ответа
	MessageID int64  // Идентификатор сохранённого сообщения персонажа
	Model     string // Модель, сгенерировавшая ответ
}

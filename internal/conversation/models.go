package conversation

import "time"

type Session struct {
	ID        string    `gorm:"primaryKey;size:128"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Session) TableName() string { return "chat_sessions" }

// Message rows are append-only; ID orders them within a session.
type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	SessionID string    `gorm:"size:128;not null;index:idx_chat_messages_session"`
	Role      string    `gorm:"size:16;not null"`
	Content   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"autoCreateTime"`
}

func (Message) TableName() string { return "chat_messages" }

// Recommendation rows hold the latest recommendation round of a session.
type Recommendation struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	SessionID  string  `gorm:"size:128;not null;uniqueIndex:idx_recommendations_session_building"`
	BuildingID int     `gorm:"not null;uniqueIndex:idx_recommendations_session_building"`
	Reason     string  `gorm:"type:text"`
	Score      float64 `gorm:"not null;default:0"`
}

func (Recommendation) TableName() string { return "recommendations" }

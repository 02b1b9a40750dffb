package domain

import (
	"regexp"
	"strings"
	"time"
)

// ChatSender identifies which party produced a chat message.
type ChatSender string

const (
	ChatSenderUser ChatSender = "user"
	ChatSenderBot  ChatSender = "bot"
)

// ChatMessage is one message in an assistant conversation. Sessions are keyed
// by SessionID; no account is required to chat.
type ChatMessage struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Sender    ChatSender `json:"sender"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}

var bookingKeywords = []string{
	"book", "booking", "appointment", "consult", "consultation",
	"meet", "meeting", "schedule", "talk to", "speak to", "advisor",
}

// DetectBookingIntent reports whether a chat message looks like a request to
// book a consultation.
func DetectBookingIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range bookingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// BookingDetails holds whatever booking fields could be extracted from
// free-form chat text. Empty fields were not mentioned.
type BookingDetails struct {
	Email string
	Phone string
	Date  string
	Time  string
}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-]{7,14}\d`)
	datePattern  = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4})\b`)
	timePattern  = regexp.MustCompile(`\b(\d{1,2}:\d{2}\s?(?:am|pm|AM|PM)?|\d{1,2}\s?(?:am|pm|AM|PM))\b`)
)

// ExtractBookingDetails pulls contact and scheduling details out of a chat
// message. Extraction is best-effort; callers must treat every field as
// optional.
func ExtractBookingDetails(message string) BookingDetails {
	return BookingDetails{
		Email: emailPattern.FindString(message),
		Phone: phonePattern.FindString(message),
		Date:  datePattern.FindString(message),
		Time:  timePattern.FindString(message),
	}
}

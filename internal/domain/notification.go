package domain

import "time"

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateEmployeeMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type BroadcastMailData struct {
	SenderName string `json:"senderName"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// BroadcastMessage 是排班经理群发给员工的站内广播，同时会通过邮件队列发送
type BroadcastMessage struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"senderID"`
	SenderName string    `json:"senderName"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

package handler

import (
	"net/http"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

func (h *Handler) GetAllBroadcasts(w http.ResponseWriter, r *http.Request) {
	broadcasts, err := h.repository.GetAllBroadcasts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取公告列表成功", broadcasts)
}

func (h *Handler) CreateBroadcast(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	var req struct {
		Subject string `json:"subject" validate:"required"`
		Body    string `json:"body" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	broadcast := &domain.BroadcastMessage{
		SenderID:   myInfo.ID,
		SenderName: myInfo.FullName,
		Subject:    req.Subject,
		Body:       req.Body,
	}

	if err := h.repository.InsertBroadcast(broadcast); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 给所有在职员工各发一封邮件
	recipients, err := h.repository.GetActiveEmployeeRecipients()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	for _, recipient := range recipients {
		message := domain.NotificationMessage{
			Type: "broadcast",
			To:   recipient.Email,
			Data: domain.BroadcastMailData{
				SenderName: myInfo.FullName,
				Subject:    req.Subject,
				Body:       req.Body,
			},
		}
		if err := h.publishNotification(&message); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "发布公告成功", broadcast)
}

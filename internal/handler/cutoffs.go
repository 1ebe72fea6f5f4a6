package handler

import (
	"net/http"
	"time"
)

func (h *Handler) GetActiveCutoff(w http.ResponseWriter, r *http.Request) {
	cutoff, err := h.gate.ActiveCutoff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// cutoff 为空表示当前没有生效的锁定边界
	h.successResponse(w, r, "获取锁定边界成功", cutoff)
}

func (h *Handler) SetCutoff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CutoffDate *string `json:"cutoffDate"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.CutoffDate == nil {
		if _, err := h.gate.SetCutoff(nil); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "已解除锁定边界", nil)
		return
	}

	cutoffDate, err := time.Parse("2006-01-02", *req.CutoffDate)
	if err != nil {
		h.errorResponse(w, r, "锁定日期无效")
		return
	}

	cutoff, err := h.gate.SetCutoff(&cutoffDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "设置锁定边界成功", cutoff)
}

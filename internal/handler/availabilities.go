package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// resolveTargetEmployeeID 确定本次操作针对的员工：默认是当前登录员工自己，
// 排班经理和管理员可以通过 employeeID 查询参数操作其他员工的记录。
func (h *Handler) resolveTargetEmployeeID(r *http.Request) (int64, error) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	employeeIDParam := r.URL.Query().Get("employeeID")
	if employeeIDParam == "" {
		return myInfo.ID, nil
	}

	employeeID, err := strconv.ParseInt(employeeIDParam, 10, 64)
	if err != nil {
		return 0, errors.New("员工ID无效")
	}

	if employeeID != myInfo.ID && myInfo.Role != domain.RoleManager && myInfo.Role != domain.RoleAdmin {
		return 0, errors.New("无权操作其他员工的空闲记录")
	}

	return employeeID, nil
}

func (h *Handler) GetMonthAvailabilities(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.resolveTargetEmployeeID(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.errorResponse(w, r, "年份无效")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		h.errorResponse(w, r, "月份无效")
		return
	}

	availabilities, err := h.store.GetMonth(employeeID, year, time.Month(month))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取空闲时间成功", availabilities)
}

func (h *Handler) GetDayAvailability(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.resolveTargetEmployeeID(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		h.errorResponse(w, r, "日期无效")
		return
	}

	availability, err := h.store.GetDay(employeeID, date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 没有记录不算错误，data 为空即可
	h.successResponse(w, r, "获取空闲时间成功", availability)
}

func (h *Handler) SetAvailabilityRange(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.resolveTargetEmployeeID(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	var req struct {
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
		TimeSlots []struct {
			StartTime string `json:"startTime" validate:"required"`
			EndTime   string `json:"endTime" validate:"required"`
			Status    string `json:"status"`
		} `json:"timeSlots"`
		Notes string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "开始日期无效")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "结束日期无效")
		return
	}

	slots := make([]domain.TimeSlot, 0, len(req.TimeSlots))
	for _, slot := range req.TimeSlots {
		slots = append(slots, domain.TimeSlot{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Status:    domain.AvailabilityStatus(slot.Status),
		})
	}

	result, err := h.store.SetRange(employeeID, startDate, endDate, slots, req.Notes)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if len(result.SkippedLocked) > 0 {
		h.successResponse(w, r, "保存空闲时间成功，部分日期因已锁定被跳过", result)
		return
	}

	h.successResponse(w, r, "保存空闲时间成功", result)
}

func (h *Handler) DeleteDayAvailability(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.resolveTargetEmployeeID(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		h.errorResponse(w, r, "日期无效")
		return
	}

	deleted, err := h.store.DeleteDay(employeeID, date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !deleted {
		h.errorResponse(w, r, "该日期已被锁定或记录不存在")
		return
	}

	h.successResponse(w, r, "删除空闲时间成功", nil)
}

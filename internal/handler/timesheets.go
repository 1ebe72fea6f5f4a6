package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		h.errorResponse(w, r, "日期无效")
		return
	}

	timesheet, err := h.repository.GetTimesheetByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 该日期还没有值班表，不算错误
			h.successResponse(w, r, "该日期暂无值班表", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取值班表成功", timesheet)
}

// shiftLocator 是定位值班表中某个班次所需的 id 链
type shiftLocator struct {
	date       time.Time
	groupID    string
	subGroupID string
	shiftID    string
}

func (h *Handler) parseShiftLocator(r *http.Request) (*shiftLocator, error) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		return nil, errors.New("日期无效")
	}

	return &shiftLocator{
		date:       date,
		groupID:    chi.URLParam(r, "groupID"),
		subGroupID: chi.URLParam(r, "subGroupID"),
		shiftID:    chi.URLParam(r, "shiftID"),
	}, nil
}

// respondMutation 统一处理班次变更的三种结局：内部错误、前置条件不满足、成功
func (h *Handler) respondMutation(w http.ResponseWriter, r *http.Request, successMessage string, timesheet *domain.Timesheet, err error) {
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if timesheet == nil {
		h.errorResponse(w, r, "班次不存在或不满足操作条件")
		return
	}

	h.successResponse(w, r, successMessage, timesheet)
}

func (h *Handler) SetShiftStatus(w http.ResponseWriter, r *http.Request) {
	loc, err := h.parseShiftLocator(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=assigned swapped in-progress completed cancelled"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	timesheet, err := h.mutator.SetShiftStatus(loc.date, loc.groupID, loc.subGroupID, loc.shiftID, domain.ShiftStatus(req.Status))
	h.respondMutation(w, r, "更新班次状态成功", timesheet, err)
}

func (h *Handler) ClockInShift(w http.ResponseWriter, r *http.Request) {
	loc, err := h.parseShiftLocator(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	timesheet, err := h.mutator.ClockIn(loc.date, loc.groupID, loc.subGroupID, loc.shiftID, time.Now())
	h.respondMutation(w, r, "上班打卡成功", timesheet, err)
}

func (h *Handler) ClockOutShift(w http.ResponseWriter, r *http.Request) {
	loc, err := h.parseShiftLocator(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	timesheet, err := h.mutator.ClockOut(loc.date, loc.groupID, loc.subGroupID, loc.shiftID, time.Now())
	h.respondMutation(w, r, "下班打卡成功", timesheet, err)
}

func (h *Handler) SwapShift(w http.ResponseWriter, r *http.Request) {
	loc, err := h.parseShiftLocator(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	var req struct {
		EmployeeID int64 `json:"employeeID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 确认目标员工存在且在职
	employee, err := h.repository.GetEmployeeByID(req.EmployeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "目标员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if !employee.IsActive {
		h.errorResponse(w, r, "目标员工已离职")
		return
	}

	timesheet, err := h.mutator.SwapShift(loc.date, loc.groupID, loc.subGroupID, loc.shiftID, req.EmployeeID)
	h.respondMutation(w, r, "换班成功", timesheet, err)
}

func (h *Handler) CancelShift(w http.ResponseWriter, r *http.Request) {
	loc, err := h.parseShiftLocator(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	timesheet, err := h.mutator.CancelShift(loc.date, loc.groupID, loc.subGroupID, loc.shiftID, req.Reason)
	h.respondMutation(w, r, "取消班次成功", timesheet, err)
}

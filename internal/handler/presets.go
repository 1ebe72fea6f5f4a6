package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
	"github.com/staffhub-dev/roster-manager/backend/internal/utils"
)

func (h *Handler) GetAllPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := h.repository.GetAllPresets()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取预设列表成功", presets)
}

func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	presetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "预设ID无效")
		return
	}

	preset, err := h.repository.GetPresetByID(presetID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "预设不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取预设成功", preset)
}

func (h *Handler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		TimeSlots []struct {
			StartTime  string  `json:"startTime" validate:"required"`
			EndTime    string  `json:"endTime" validate:"required"`
			Status     string  `json:"status"`
			DaysOfWeek []int32 `json:"daysOfWeek"`
		} `json:"timeSlots" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	preset := &domain.AvailabilityPreset{
		Name:      req.Name,
		TimeSlots: make([]domain.PresetTimeSlot, 0, len(req.TimeSlots)),
	}
	for _, slot := range req.TimeSlots {
		preset.TimeSlots = append(preset.TimeSlots, domain.PresetTimeSlot{
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			Status:     domain.NormalizeAvailabilityStatus(slot.Status),
			DaysOfWeek: slot.DaysOfWeek,
		})
	}

	if err := utils.ValidatePresetTimeSlots(preset.TimeSlots); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreatePreset(preset); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "availability_presets_name_key":
				h.badRequest(w, r, errors.New("预设名称已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建预设成功", preset)
}

func (h *Handler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	presetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "预设ID无效")
		return
	}

	if err := h.repository.DeletePreset(presetID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除预设成功", nil)
}

func (h *Handler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.resolveTargetEmployeeID(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	presetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "预设ID无效")
		return
	}

	var req struct {
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
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

	result, err := h.store.ApplyPreset(employeeID, presetID, startDate, endDate)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "预设不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "应用预设成功", result)
}

package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mozillazg/go-pinyin"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "庆",
	"建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣", "悦",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleEmployee,
	domain.RoleEmployee,
	domain.RoleEmployee,
	domain.RoleManager,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomEmployee(password string, emailDomainName string) (*domain.Employee, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
		IsActive:     true,
	}

	return employee, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var slotStatuses = []domain.AvailabilityStatus{
	domain.StatusAvailable,
	domain.StatusAvailable,
	domain.StatusUnavailable,
	domain.StatusTentative,
}

// GenerateRandomTimeSlots 把一天按小时切成若干随机段，用于生成测试数据
func GenerateRandomTimeSlots() []domain.TimeSlot {
	slotsNum := rand.Intn(3) + 1
	slots := make([]domain.TimeSlot, 0, slotsNum)
	hourPerSlot := 12 / slotsNum

	for i := 0; i < slotsNum; i++ {
		startHour := 8 + i*hourPerSlot
		endHour := startHour + rand.Intn(hourPerSlot) + 1

		slots = append(slots, domain.TimeSlot{
			StartTime: fmt.Sprintf("%02d:00", startHour),
			EndTime:   fmt.Sprintf("%02d:00", endHour),
			Status:    slotStatuses[rand.Intn(len(slotStatuses))],
		})
	}

	return slots
}

// GenerateRandomDayAvailability 生成某个员工某一天的随机空闲记录
func GenerateRandomDayAvailability(employeeID int64, date time.Time) *domain.DayAvailability {
	slots := GenerateRandomTimeSlots()

	return &domain.DayAvailability{
		EmployeeID: employeeID,
		Date:       domain.DateOnly(date),
		Status:     domain.AggregateDayStatus(slots),
		TimeSlots:  slots,
	}
}

var presetTemplates = []struct {
	name  string
	start string
	end   string
}{
	{"标准班 (9-5)", "09:00", "17:00"},
	{"早班", "06:00", "14:00"},
	{"晚班", "14:00", "22:00"},
	{"半天班", "09:00", "13:00"},
}

func GenerateRandomPreset() *domain.AvailabilityPreset {
	template := presetTemplates[rand.Intn(len(presetTemplates))]

	return &domain.AvailabilityPreset{
		Name: template.name,
		TimeSlots: []domain.PresetTimeSlot{
			{
				StartTime:  template.start,
				EndTime:    template.end,
				Status:     domain.StatusAvailable,
				DaysOfWeek: []int32{1, 2, 3, 4, 5},
			},
		},
	}
}

var groupNames = []string{"前台", "仓库", "客服", "配送"}
var groupColors = []string{"#4f46e5", "#059669", "#d97706", "#dc2626"}
var subGroupNames = []string{"早班组", "午班组", "晚班组"}
var shiftRoles = []string{"收银", "理货", "接待", "分拣"}

// GenerateRandomTimesheet 生成某一天的随机值班表聚合，班次从传入的员工中随机指派
func GenerateRandomTimesheet(date time.Time, employeeIDs []int64) *domain.Timesheet {
	ts := &domain.Timesheet{
		ID:   uuid.NewString(),
		Date: domain.DateOnly(date),
	}

	groupsNum := rand.Intn(2) + 1
	for i := 0; i < groupsNum; i++ {
		group := domain.Group{
			ID:    uuid.NewString(),
			Name:  groupNames[(i+rand.Intn(len(groupNames)))%len(groupNames)],
			Color: groupColors[rand.Intn(len(groupColors))],
		}

		subGroupsNum := rand.Intn(2) + 1
		for j := 0; j < subGroupsNum; j++ {
			subGroup := domain.SubGroup{
				ID:   uuid.NewString(),
				Name: subGroupNames[(j+rand.Intn(len(subGroupNames)))%len(subGroupNames)],
			}

			shiftsNum := rand.Intn(3) + 1
			for k := 0; k < shiftsNum; k++ {
				startHour := 8 + k*4
				shift := domain.Shift{
					ID:        uuid.NewString(),
					StartTime: fmt.Sprintf("%02d:00", startHour),
					EndTime:   fmt.Sprintf("%02d:00", startHour+4),
					Role:      shiftRoles[rand.Intn(len(shiftRoles))],
					Status:    domain.ShiftStatusAssigned,
				}
				if len(employeeIDs) > 0 {
					employeeID := employeeIDs[rand.Intn(len(employeeIDs))]
					shift.EmployeeID = &employeeID
				}
				subGroup.Shifts = append(subGroup.Shifts, shift)
			}

			group.SubGroups = append(group.SubGroups, subGroup)
		}

		ts.Groups = append(ts.Groups, group)
	}

	return ts
}

package controller

import (
	"strconv"

	"schoolhub_backend/internal/service"
	"schoolhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	Service *service.AttendanceService
}

func NewAttendanceController(svc *service.AttendanceService) *AttendanceController {
	return &AttendanceController{Service: svc}
}

// @Summary 开启签到场次
// @Tags 考勤
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.OpenSessionRequest true "班级与日期"
// @Success 201 {object} util.Response
// @Router /api/teacher/attendance/sessions [post]
func (c *AttendanceController) OpenSession(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.OpenSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.OpenSession(actor, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// @Summary 场次签到二维码
// @Tags 考勤
// @Produce png
// @Security ApiKeyAuth
// @Param id path string true "场次ID"
// @Success 200 {file} binary
// @Router /api/teacher/attendance/sessions/{id}/qr [get]
func (c *AttendanceController) SessionQR(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	png, err := c.Service.SessionQR(actor, ctx.Param("id"))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	ctx.Data(200, "image/png", png)
}

type checkInRequest struct {
	Token string `json:"token" binding:"required"`
}

// @Summary 学生扫码签到
// @Tags 考勤
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body checkInRequest true "二维码中的令牌"
// @Success 200 {object} util.Response
// @Router /api/attendance/check-in [post]
func (c *AttendanceController) CheckIn(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req checkInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.Service.CheckIn(actor, req.Token)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary 签到场次列表
// @Tags 考勤
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/teacher/attendance/sessions [get]
func (c *AttendanceController) ListSessions(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	sessions, total, err := c.Service.ListSessions(actor, page, limit)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: sessions, Total: total, Page: page, Limit: limit})
}

// @Summary 场次签到明细
// @Tags 考勤
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "场次ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/attendance/sessions/{id}/records [get]
func (c *AttendanceController) ListSessionRecords(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.Service.ListSessionRecords(actor, ctx.Param("id"))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, records)
}

// @Summary 学生考勤记录 / 家长查看绑定学生
// @Tags 考勤
// @Produce json
// @Security ApiKeyAuth
// @Param studentId query int false "学生ID（家长端必填）"
// @Success 200 {object} util.Response
// @Router /api/attendance/records [get]
func (c *AttendanceController) ListStudentRecords(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	studentID := 0
	if v := ctx.Query("studentId"); v != "" {
		studentID, _ = strconv.Atoi(v)
	}

	records, err := c.Service.ListStudentRecords(actor, uint(studentID))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, records)
}

package controller

import (
	"strconv"

	"schoolhub_backend/internal/service"
	"schoolhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ScheduleController struct {
	Service *service.ScheduleService
}

func NewScheduleController(svc *service.ScheduleService) *ScheduleController {
	return &ScheduleController{Service: svc}
}

// @Summary 新建课表条目
// @Tags 课表
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ScheduleRequest true "课程信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/schedule [post]
func (c *ScheduleController) CreateEntry(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.Service.Create(actor, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Created(ctx, entry)
}

// @Summary 修改课表条目
// @Tags 课表
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "条目ID"
// @Param body body service.ScheduleRequest true "课程信息"
// @Success 200 {object} util.Response
// @Router /api/teacher/schedule/{id} [put]
func (c *ScheduleController) UpdateEntry(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "invalid entry id")
		return
	}

	var req service.ScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.Service.Update(actor, uint(id), req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, entry)
}

// @Summary 删除课表条目
// @Tags 课表
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "条目ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/schedule/{id} [delete]
func (c *ScheduleController) DeleteEntry(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "invalid entry id")
		return
	}

	if err := c.Service.Delete(actor, uint(id)); err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 团队课表
// @Tags 课表
// @Produce json
// @Security ApiKeyAuth
// @Param teacherId query int false "按教师过滤"
// @Success 200 {object} util.Response
// @Router /api/schedule [get]
func (c *ScheduleController) ListEntries(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	teacherID, _ := strconv.Atoi(ctx.DefaultQuery("teacherId", "0"))

	entries, err := c.Service.List(actor, uint(teacherID))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

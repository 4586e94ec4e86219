package controller

import (
	"strconv"

	"schoolhub_backend/internal/service"
	"schoolhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Service *service.ExamService
}

func NewExamController(svc *service.ExamService) *ExamController {
	return &ExamController{Service: svc}
}

func examID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// @Summary 创建考试（含分组题目）
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ExamRequest true "考试头部与题目分组"
// @Success 201 {object} util.Response
// @Router /api/owner/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.CreateExam(actor, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Created(ctx, exam)
}

// @Summary 更新考试，题目整组替换
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "考试ID"
// @Param body body service.ExamRequest true "考试头部与题目分组"
// @Success 200 {object} util.Response
// @Router /api/owner/exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := examID(ctx)
	if !ok {
		return
	}

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.UpdateExam(actor, id, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// @Summary 考试详情（含按序题目）
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := examID(ctx)
	if !ok {
		return
	}

	exam, err := c.Service.GetExam(actor, id)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// @Summary 考试列表
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/owner/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	exams, total, err := c.Service.ListExams(actor, page, limit)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: exams, Total: total, Page: page, Limit: limit})
}

// @Summary 删除考试（软删，活动投影同步移除）
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/owner/exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := examID(ctx)
	if !ok {
		return
	}

	if err := c.Service.DeleteExam(actor, id); err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 恢复已删除的考试
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/owner/exams/{id}/restore [post]
func (c *ExamController) RestoreExam(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := examID(ctx)
	if !ok {
		return
	}

	exam, err := c.Service.RestoreExam(actor, id)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// @Summary 彻底删除考试
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/owner/exams/{id}/force [delete]
func (c *ExamController) ForceDeleteExam(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := examID(ctx)
	if !ok {
		return
	}

	if err := c.Service.ForceDeleteExam(actor, id); err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

package controller

import (
	"strconv"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/service"
	"schoolhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	Service *service.SubmissionService
	Storage *service.StorageService
}

func NewSubmissionController(svc *service.SubmissionService, storage *service.StorageService) *SubmissionController {
	return &SubmissionController{Service: svc, Storage: storage}
}

// @Summary 提交作业/试卷
// @Tags 提交
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitRequest true "提交内容"
// @Success 201 {object} util.Response
// @Router /api/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.Service.Submit(actor, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Created(ctx, submission)
}

// @Summary 上传提交附件
// @Tags 提交
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "提交ID"
// @Param file formData file true "附件"
// @Success 200 {object} util.Response
// @Router /api/submissions/{id}/attachments [post]
func (c *SubmissionController) UploadAttachment(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	// 上传对象前先过提交权限，家长等只读角色到不了存储层
	submission, err := c.Service.AuthorizeAttachment(actor, ctx.Param("id"))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	url, err := c.Storage.UploadAttachment(ctx.Request.Context(), submission.ID, fileHeader.Filename, f, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	att := model.Attachment{Name: fileHeader.Filename, URL: url, Size: fileHeader.Size}
	updated, err := c.Service.AppendAttachment(actor, submission.ID, att)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url, "name": att.Name, "size": att.Size, "attachments": updated.Attachments})
}

// @Summary 提交详情
// @Tags 提交
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "提交ID"
// @Success 200 {object} util.Response
// @Router /api/submissions/{id} [get]
func (c *SubmissionController) GetSubmission(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	submission, err := c.Service.GetSubmission(actor, ctx.Param("id"))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

// @Summary 按活动列出提交（评分端）
// @Tags 提交
// @Produce json
// @Security ApiKeyAuth
// @Param activityId path int true "活动ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/teacher/activities/{activityId}/submissions [get]
func (c *SubmissionController) ListByActivity(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	activityID, err := strconv.Atoi(ctx.Param("activityId"))
	if err != nil || activityID <= 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	submissions, total, err := c.Service.ListByActivity(actor, uint(activityID), page, limit)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: submissions, Total: total, Page: page, Limit: limit})
}

// @Summary 我的提交 / 家长查看绑定学生的提交
// @Tags 提交
// @Produce json
// @Security ApiKeyAuth
// @Param studentId query int false "学生ID（家长端必填）"
// @Success 200 {object} util.Response
// @Router /api/submissions [get]
func (c *SubmissionController) ListMine(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	studentID := 0
	if v := ctx.Query("studentId"); v != "" {
		studentID, _ = strconv.Atoi(v)
	}

	submissions, err := c.Service.ListForStudent(actor, uint(studentID))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, submissions)
}

// @Summary 评分
// @Tags 提交
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "提交ID"
// @Param body body service.GradeRequest true "分数与评语"
// @Success 200 {object} util.Response
// @Router /api/teacher/submissions/{id}/grade [post]
func (c *SubmissionController) Grade(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.Service.Grade(actor, ctx.Param("id"), req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

type bulkGradeRequest struct {
	SubmissionIDs []string             `json:"submissionIds" binding:"required"`
	Grade         service.GradeRequest `json:"grade" binding:"required"`
}

// @Summary 批量评分，逐条独立落库，失败项一并返回
// @Tags 提交
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body bulkGradeRequest true "提交ID集合与统一评分"
// @Success 200 {object} util.Response
// @Router /api/teacher/submissions/bulk-grade [post]
func (c *SubmissionController) BulkGrade(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req bulkGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result := c.Service.BulkGrade(actor, req.SubmissionIDs, req.Grade)
	util.Success(ctx, result)
}

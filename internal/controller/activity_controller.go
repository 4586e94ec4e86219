package controller

import (
	"strconv"

	"schoolhub_backend/internal/service"
	"schoolhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	Service *service.ActivityService
}

func NewActivityController(svc *service.ActivityService) *ActivityController {
	return &ActivityController{Service: svc}
}

// @Summary 作业/活动列表
// @Tags 活动
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/activities [get]
func (c *ActivityController) ListActivities(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	activities, total, err := c.Service.List(actor, page, limit)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: activities, Total: total, Page: page, Limit: limit})
}

// @Summary 活动详情
// @Tags 活动
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response
// @Router /api/activities/{id} [get]
func (c *ActivityController) GetActivity(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}

	activity, err := c.Service.Get(actor, uint(id))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, activity)
}

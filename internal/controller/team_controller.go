package controller

import (
	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/service"
	"schoolhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TeamController struct {
	Service *service.TeamService
}

func NewTeamController(svc *service.TeamService) *TeamController {
	return &TeamController{Service: svc}
}

// @Summary 创建团队
// @Tags 团队
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateTeamRequest true "团队信息"
// @Success 201 {object} util.Response
// @Router /api/teams [post]
func (c *TeamController) CreateTeam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	team, err := c.Service.CreateTeam(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, team)
}

// @Summary 我的团队列表
// @Tags 团队
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/teams [get]
func (c *TeamController) ListMyTeams(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	teams, err := c.Service.ListMyTeams(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, teams)
}

// @Summary 添加成员
// @Tags 团队
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AddMemberRequest true "成员信息"
// @Success 201 {object} util.Response
// @Router /api/team/members [post]
func (c *TeamController) AddMember(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	membership, err := c.Service.AddMember(actor, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Created(ctx, membership)
}

// @Summary 成员列表
// @Tags 团队
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "按角色过滤"
// @Success 200 {object} util.Response
// @Router /api/team/members [get]
func (c *TeamController) ListMembers(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	role := model.TeamRole(ctx.Query("role"))
	members, err := c.Service.ListMembers(actor, role)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Success(ctx, members)
}

// @Summary 绑定家长与学生
// @Tags 团队
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LinkParentRequest true "绑定信息"
// @Success 201 {object} util.Response
// @Router /api/team/parent-links [post]
func (c *TeamController) LinkParent(ctx *gin.Context) {
	actor := util.GetActorFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LinkParentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	link, err := c.Service.LinkParent(actor, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Created(ctx, link)
}

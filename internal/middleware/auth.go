package middleware

import (
	"strconv"
	"strings"

	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TeamContextMiddleware 按 X-Team-ID 查成员表，把团队内身份装进 ActorContext。
// 角色逐请求解析而非写死在令牌里，换团队即换角色
func TeamContextMiddleware(teamRepo *repository.TeamRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		teamIDStr := c.GetHeader("X-Team-ID")
		if teamIDStr == "" {
			teamIDStr = c.Query("teamId")
		}
		teamID, err := strconv.Atoi(teamIDStr)
		if err != nil || teamID <= 0 {
			util.BadRequest(c, "missing or invalid X-Team-ID")
			c.Abort()
			return
		}

		membership, err := teamRepo.FindMembership(uint(teamID), claims.UserID)
		if err != nil {
			util.Forbidden(c)
			c.Abort()
			return
		}

		c.Set("actor", &model.ActorContext{
			UserID: claims.UserID,
			TeamID: membership.TeamID,
			Role:   membership.Role,
		})
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(userID uint) error
}

func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			// 异步更新，不阻塞主流程
			go repo.UpdateLastSeen(claims.UserID)
		}
		c.Next()
	}
}

package handler

import (
    "time"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "golang.org/x/crypto/bcrypt"

    "github.com/d60-Lab/autopub/pkg/response"
)

type loginRequest struct {
    Username string `json:"username" binding:"required"`
    Password string `json:"password" binding:"required"`
}

// Login 运维账号登录，签发 JWT
// @Summary 登录
// @Tags 鉴权
// @Accept json
// @Produce json
// @Param request body loginRequest true "账号信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
    var req loginRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    u, err := h.users.GetByUsername(c.Request.Context(), req.Username)
    if err != nil {
        response.Unauthorized(c, "invalid credentials")
        return
    }
    if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
        response.Unauthorized(c, "invalid credentials")
        return
    }

    ttl := h.auth.TokenTTL
    if ttl <= 0 {
        ttl = 24 * time.Hour
    }
    claims := jwt.MapClaims{
        "username": u.Username,
        "exp":      time.Now().Add(ttl).Unix(),
    }
    token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.auth.JWTSecret))
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"token": token})
}

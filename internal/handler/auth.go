package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kchestnov/plutarch/internal/config"
	"github.com/kchestnov/plutarch/internal/engine"
	"github.com/kchestnov/plutarch/internal/utils"
)

// AuthHandler issues member-scoped access tokens to the trusted front end.
// The conversational front end authenticates members itself (it knows who is
// tapping the buttons); this endpoint only checks that the front end holds
// the operator key and that the member exists, then hands back a short-lived
// JWT the front end attaches to every engine call on that member's behalf.
type AuthHandler struct {
	Cfg    config.Config
	Engine *engine.Engine
}

func NewAuthHandler(cfg config.Config, e *engine.Engine) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Engine: e}
}

type tokenReq struct {
	UserName    string `json:"user_name"`
	OperatorKey string `json:"operator_key"`
}

type tokenResp struct {
	UserName string    `json:"user_name"`
	Role     string    `json:"role"`
	Token    string    `json:"token"`
	Expires  time.Time `json:"expires"`
}

// Token exchanges the operator key plus a member user name for an access
// token. The reserved user name "admin" yields an admin-role token without a
// members lookup; every other name must exist in the members table and gets
// the member role.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.UserName = strings.TrimSpace(req.UserName)
	if req.UserName == "" || req.OperatorKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_name/operator_key required"})
	}
	if !utils.VerifyOperatorKey(h.Cfg.OperatorKeyHash, req.OperatorKey) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid operator key"})
	}

	role := "member"
	if req.UserName == engine.AdminSeller {
		role = "admin"
	} else {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if _, err := h.Engine.Member(ctx, req.UserName); err != nil {
			if errors.Is(err, engine.ErrUnknownMember) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown member"})
			}
			return engineError(c, err)
		}
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.UserName, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{
		UserName: req.UserName,
		Role:     role,
		Token:    access.Token,
		Expires:  access.Exp,
	})
}

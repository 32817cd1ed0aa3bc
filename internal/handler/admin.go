package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kchestnov/plutarch/internal/engine"
	"github.com/kchestnov/plutarch/internal/model"
)

// AdminHandler manages the reference data the engine reads: members and
// sessions. In the original deployment these rows were edited by hand in the
// sheet; here the admin front end maintains them through the same store the
// engine uses.
type AdminHandler struct {
	Engine *engine.Engine
}

func NewAdminHandler(e *engine.Engine) *AdminHandler {
	return &AdminHandler{Engine: e}
}

type memberReq struct {
	UserName string `json:"user_name"`
	Name     string `json:"name"`
	Balance  int    `json:"balance"`
	CanSell  bool   `json:"can_sell"`
	Priority string `json:"priority"` // FULL | HALF | ONE_TIME
}

type memberResp struct {
	UserName string `json:"user_name"`
	Name     string `json:"name"`
	Balance  int    `json:"balance"`
	CanSell  bool   `json:"can_sell"`
	Priority string `json:"priority"`
}

type sessionReq struct {
	SessionDate string `json:"session_date"`
	Capacity    int    `json:"capacity"`
	Price       int    `json:"price"`
}

// CreateMember adds a member row. Duplicate user names are a conflict.
func (h *AdminHandler) CreateMember(c echo.Context) error {
	var req memberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	prio, err := model.ParsePriority(strings.TrimSpace(req.Priority))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	member := model.Member{
		UserName: strings.TrimSpace(req.UserName),
		Name:     strings.TrimSpace(req.Name),
		Balance:  req.Balance,
		CanSell:  req.CanSell,
		Priority: prio,
	}
	if err := h.Engine.CreateMember(ctx, member); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, toMemberResp(member))
}

// GetMember returns one member row by user name.
func (h *AdminHandler) GetMember(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	member, err := h.Engine.Member(ctx, c.Param("user_name"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toMemberResp(member))
}

// CreateSession adds a session row. Capacity and price are fixed once
// created; only the settled flag changes later, at session close.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	session := model.Session{
		SessionDate: strings.TrimSpace(req.SessionDate),
		Capacity:    req.Capacity,
		Price:       req.Price,
	}
	if err := h.Engine.CreateSession(ctx, session); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

func toMemberResp(m model.Member) memberResp {
	return memberResp{
		UserName: m.UserName,
		Name:     m.Name,
		Balance:  m.Balance,
		CanSell:  m.CanSell,
		Priority: m.Priority.String(),
	}
}

package controllers

import (
	"net/http"
	"strconv"
	"strings"

	appwebsocket "allocation-system/pkg/websocket"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketController struct {
	hub    *appwebsocket.Hub
	logger *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		hub:    hub,
		logger: logger,
	}
}

// ServeWs подключает клиента с подпиской на конкретное оборудование:
// query-параметр equipment_ids — список id через запятую. Уведомления
// приходят только по подписанным id.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	idsParam := ctx.QueryParam("equipment_ids")
	if idsParam == "" {
		return ctx.String(http.StatusBadRequest, "equipment_ids обязателен")
	}

	var equipmentIDs []uint64
	for _, raw := range strings.Split(idsParam, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return ctx.String(http.StatusBadRequest, "equipment_ids содержит нечисловое значение")
		}
		equipmentIDs = append(equipmentIDs, id)
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("ServeWs: не удалось обновить соединение до websocket", zap.Error(err))
		return err
	}

	client := appwebsocket.NewClient(c.hub, conn, equipmentIDs)
	c.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	return nil
}

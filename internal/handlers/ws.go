package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/launchbase-dev/launchbase/internal/config"
	"github.com/launchbase-dev/launchbase/internal/logger"
	"github.com/launchbase-dev/launchbase/internal/models"
	"github.com/launchbase-dev/launchbase/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// feedClient serializes writes to one connection. gorilla/websocket allows
// a single concurrent writer, and both broadcasts and the ping loop write.
type feedClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *feedClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteJSON(v)
}

func (c *feedClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

var (
	teamClients   = make(map[uint]map[*feedClient]bool)
	teamClientsMu sync.RWMutex
)

func removeClient(teamID uint, client *feedClient) {
	teamClientsMu.Lock()

	if clients, exists := teamClients[teamID]; exists {
		delete(clients, client)

		if len(clients) == 0 {
			delete(teamClients, teamID)
		}
	}

	teamClientsMu.Unlock()
	client.conn.Close()
}

// BroadcastActivity pushes a freshly recorded audit entry to every dashboard
// socket watching the team.
func BroadcastActivity(teamID uint, entry *models.ActivityLog) {
	teamClientsMu.RLock()
	clients := make([]*feedClient, 0, len(teamClients[teamID]))
	for client := range teamClients[teamID] {
		clients = append(clients, client)
	}
	teamClientsMu.RUnlock()

	for _, client := range clients {
		err := client.writeJSON(map[string]interface{}{
			"type": "activity",
			"entry": ActivityEntry{
				ID:        entry.ID,
				Action:    entry.Action,
				UserID:    entry.UserID,
				IPAddress: entry.IPAddress,
				CreatedAt: entry.CreatedAt,
			},
		})

		if err != nil {
			logger.Warn("failed to broadcast activity", "team_id", teamID, "error", err)
			removeClient(teamID, client)
		}
	}
}

// ActivityFeed upgrades the connection and streams new audit entries for the
// caller's team until the client goes away.
func ActivityFeed(c *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(c)

	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	teamID := currentTeam.Team.ID

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range config.App.AllowedOrigins() {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &feedClient{conn: conn}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Warn("failed to set initial read deadline", "error", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	teamClientsMu.Lock()
	if teamClients[teamID] == nil {
		teamClients[teamID] = make(map[*feedClient]bool)
	}
	teamClients[teamID][client] = true
	teamClientsMu.Unlock()

	done := make(chan struct{})

	defer func() {
		close(done)
		removeClient(teamID, client)

		logger.Debug("activity feed closed", "team_id", teamID)
	}()

	if err := client.writeJSON(map[string]interface{}{
		"type":    "connected",
		"team_id": teamID,
	}); err != nil {
		logger.Warn("failed to send welcome message", "error", err)
		return
	}

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := client.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error", "team_id", teamID, "error", err)
			}
			break
		}
	}
}

package http_api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custos-watch/custos/internal/custos"
)

const (
	defaultFlowLimit = 50
	maxFlowLimit     = 500
)

// health is a handler for the /healthz endpoint.
func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// balances returns the most recent observation per tracked wallet.
func (s *HTTPServer) balances(c *gin.Context) {
	rows, err := s.store.LatestBalances()
	if err != nil {
		s.logger.Error("Failed to load latest balances ", "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to load balances",
		})
		return
	}

	total := 0.0
	for _, row := range rows {
		total += row.USDValue
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"balances":     rows,
		"total_usd":    total,
		"wallet_count": len(rows),
	})
}

// flows returns the most recent delta records, newest first.
func (s *HTTPServer) flows(c *gin.Context) {
	limit := defaultFlowLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxFlowLimit {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "limit must be an integer between 1 and 500",
			})
			return
		}
		limit = parsed
	}

	flows, err := s.store.RecentFlows(limit)
	if err != nil {
		s.logger.Error("Failed to load recent flows ", "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to load flows",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"flows":   flows,
	})
}

// stats returns USD inflow totals per reporting window.
func (s *HTTPServer) stats(c *gin.Context) {
	stats, err := custos.CollectInflowStats(s.store, time.Now())
	if err != nil {
		s.logger.Error("Failed to collect inflow stats ", "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to collect statistics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"inflow":  stats,
	})
}

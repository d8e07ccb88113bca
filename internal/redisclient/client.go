package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"store-service/internal/models"
	"store-service/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Client caches derived report payloads (dashboard, inventory) per store.
// Cache failures degrade to recomputation, never to request failures.
type Client struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl, logger: util.GetLogger()}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetDashboard returns a cached dashboard payload, if present.
func (c *Client) GetDashboard(ctx context.Context, storeID int64, timeframe string) (*models.Dashboard, bool) {
	var dashboard models.Dashboard
	if !c.get(ctx, dashboardKey(storeID, timeframe), &dashboard) {
		return nil, false
	}
	return &dashboard, true
}

// SetDashboard caches a dashboard payload with the configured TTL.
func (c *Client) SetDashboard(ctx context.Context, storeID int64, timeframe string, d *models.Dashboard) {
	c.set(ctx, dashboardKey(storeID, timeframe), d)
}

// GetInventory returns a cached inventory report, if present.
func (c *Client) GetInventory(ctx context.Context, storeID int64) ([]models.InventoryLine, bool) {
	var lines []models.InventoryLine
	if !c.get(ctx, inventoryKey(storeID), &lines) {
		return nil, false
	}
	return lines, true
}

// SetInventory caches an inventory report with the configured TTL.
func (c *Client) SetInventory(ctx context.Context, storeID int64, lines []models.InventoryLine) {
	c.set(ctx, inventoryKey(storeID), lines)
}

// Invalidate drops every cached report for a store. Called after each write
// so stale aggregates are never served past the write that changed them.
func (c *Client) Invalidate(ctx context.Context, storeID int64) {
	keys := []string{
		inventoryKey(storeID),
		dashboardKey(storeID, "today"),
		dashboardKey(storeID, "this week"),
		dashboardKey(storeID, "this month"),
		dashboardKey(storeID, "this year"),
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Failed to invalidate report cache",
			zap.Int64("store_id", storeID),
			zap.Error(err))
	}
}

func (c *Client) get(ctx context.Context, key string, out interface{}) bool {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		c.logger.Warn("Report cache payload corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Client) set(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Report cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func dashboardKey(storeID int64, timeframe string) string {
	return fmt.Sprintf("reports:%d:dashboard:%s", storeID, timeframe)
}

func inventoryKey(storeID int64) string {
	return fmt.Sprintf("reports:%d:inventory", storeID)
}

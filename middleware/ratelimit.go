package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter 限流计数器，key 为调用方拼好的标识（如 前缀+IP）
type Limiter interface {
	Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error)
}

// MemoryLimiter 进程内滑动窗口限流
type MemoryLimiter struct {
	mu    sync.Mutex
	store map[string][]time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewMemoryLimiter 创建进程内限流器，并定期清理过期数据，用完需调用 Stop
func NewMemoryLimiter(cleanupEvery time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		store: make(map[string][]time.Time),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(l.done)
		ticker := time.NewTicker(cleanupEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.cleanup(time.Now())
			case <-l.stop:
				return
			}
		}
	}()
	return l
}

// Stop 结束后台清理协程，可重复调用
func (l *MemoryLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}

// Allow 窗口内未超过 max 次时记录本次并放行
func (l *MemoryLimiter) Allow(_ context.Context, key string, max int, window time.Duration) (bool, error) {
	now := time.Now()
	cutoff := now.Add(-window)

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := prune(l.store[key], cutoff)
	if len(ts) >= max {
		l.store[key] = ts
		return false, nil
	}
	l.store[key] = append(ts, now)
	return true, nil
}

// cleanup 删除最近一次请求早于 now-1h 的 key
func (l *MemoryLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := now.Add(-time.Hour)
	for key, ts := range l.store {
		if len(ts) == 0 || ts[len(ts)-1].Before(cutoff) {
			delete(l.store, key)
		}
	}
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	out := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// RedisLimiter 基于 redis 的固定窗口限流，多实例部署时共享计数
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter 从 redis URL 创建限流器
func NewRedisLimiter(redisURL string) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisLimiter{client: redis.NewClient(opts)}, nil
}

// Ping 检查 redis 连接
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Allow 计数 +1，首次写入时设置过期时间
func (l *RedisLimiter) Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, "ratelimit:"+key)
	pipe.ExpireNX(ctx, "ratelimit:"+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= int64(max), nil
}

// RateLimit 按客户端 IP 限流，超过则返回 429；计数器出错时放行
func RateLimit(limiter Limiter, name string, max int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if max <= 0 {
			c.Next()
			return
		}
		ok, err := limiter.Allow(c.Request.Context(), name+":"+c.ClientIP(), max, window)
		if err != nil {
			log.Warn("限流计数失败，放行请求", zap.String("limiter", name), zap.Error(err))
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}

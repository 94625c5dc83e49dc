package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"mining-miniapp-backend/internal/config"
	"mining-miniapp-backend/internal/models"
)

// RedisService is the persistence layer: miner records and Telegram profiles
// as JSON values, the reward event log as a sorted set scored by occurrence
// time so window scans are a single ZRANGEBYSCORE.
type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{
		client: client,
		ctx:    ctx,
	}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) GetMiner(userID int64) (*models.MinerRecord, error) {
	key := fmt.Sprintf(KeyMiner, userID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrMinerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get miner: %v", err)
	}

	var rec models.MinerRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal miner: %v", err)
	}
	return &rec, nil
}

func (s *RedisService) SaveMiner(rec *models.MinerRecord) error {
	key := fmt.Sprintf(KeyMiner, rec.UserID)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal miner: %v", err)
	}

	return s.client.Set(s.ctx, key, data, 0).Err()
}

// collectScript writes the miner record and its reward event in one atomic
// step so a crash cannot credit a balance without logging the reward.
var collectScript = redis.NewScript(`
redis.call("SET", KEYS[1], ARGV[1])
redis.call("ZADD", KEYS[2], ARGV[3], ARGV[2])
redis.call("ZADD", KEYS[3], ARGV[3], ARGV[2])
redis.call("ZREMRANGEBYRANK", KEYS[3], 0, tonumber(ARGV[4]))
return 1
`)

func (s *RedisService) CommitCollect(rec *models.MinerRecord, ev *models.RewardEvent) error {
	recData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal miner: %v", err)
	}
	evData, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal reward event: %v", err)
	}

	keys := []string{
		fmt.Sprintf(KeyMiner, rec.UserID),
		KeyRewardLog,
		fmt.Sprintf(KeyUserRewards, rec.UserID),
	}
	err = collectScript.Run(s.ctx, s.client, keys,
		recData, evData, ev.OccurredAt.Unix(), -MaxUserRewardHistory-1).Err()
	if err != nil {
		return fmt.Errorf("failed to commit collect: %v", err)
	}
	return nil
}

func (s *RedisService) AppendRewardEvent(ev *models.RewardEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal reward event: %v", err)
	}

	score := float64(ev.OccurredAt.Unix())

	if err := s.client.ZAdd(s.ctx, KeyRewardLog, redis.Z{
		Score:  score,
		Member: data,
	}).Err(); err != nil {
		return fmt.Errorf("failed to append reward event: %v", err)
	}

	userKey := fmt.Sprintf(KeyUserRewards, ev.UserID)
	if err := s.client.ZAdd(s.ctx, userKey, redis.Z{
		Score:  score,
		Member: data,
	}).Err(); err != nil {
		return fmt.Errorf("failed to append user reward: %v", err)
	}

	s.client.ZRemRangeByRank(s.ctx, userKey, 0, int64(-MaxUserRewardHistory-1))

	return nil
}

func (s *RedisService) Events(since time.Time) ([]models.RewardEvent, error) {
	min := "-inf"
	if !since.IsZero() {
		min = strconv.FormatInt(since.Unix(), 10)
	}

	members, err := s.client.ZRangeByScore(s.ctx, KeyRewardLog, &redis.ZRangeBy{
		Min: min,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan reward log: %v", err)
	}

	events := make([]models.RewardEvent, 0, len(members))
	for _, member := range members {
		var ev models.RewardEvent
		if err := json.Unmarshal([]byte(member), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *RedisService) UserEvents(userID int64, limit int64) ([]models.RewardEvent, error) {
	if limit <= 0 || limit > MaxUserRewardHistory {
		limit = 20
	}

	userKey := fmt.Sprintf(KeyUserRewards, userID)

	members, err := s.client.ZRevRange(s.ctx, userKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user rewards: %v", err)
	}

	events := make([]models.RewardEvent, 0, len(members))
	for _, member := range members {
		var ev models.RewardEvent
		if err := json.Unmarshal([]byte(member), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *RedisService) GetProfile(userID int64) (*models.TelegramUser, error) {
	key := fmt.Sprintf(KeyUserProfile, userID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var user models.TelegramUser
	err = json.Unmarshal([]byte(data), &user)
	return &user, err
}

func (s *RedisService) SaveProfile(user *models.TelegramUser) error {
	key := fmt.Sprintf(KeyUserProfile, user.ID)

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, TTLUserProfile).Err()
}

func (s *RedisService) CheckRateLimit(userID int64, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) DeleteMiner(userID int64) error {
	key := fmt.Sprintf(KeyMiner, userID)
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisService) ClearRateLimit(userID int64, action string) error {
	key := fmt.Sprintf(KeyRateLimit, userID, action)
	return s.client.Del(s.ctx, key).Err()
}

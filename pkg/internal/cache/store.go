package cache

import (
	"context"

	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var S store.StoreInterface

func NewCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("cache.addr"),
		Username: viper.GetString("cache.username"),
		Password: viper.GetString("cache.password"),
		DB:       viper.GetInt("cache.database"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	S = redisstore.NewRedis(client)

	return nil
}

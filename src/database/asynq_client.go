package database

import (
	"github.com/hibiken/asynq"
)

var AsynqClient *asynq.Client

// AsynqRedisOpt derives asynq connection options from REDIS_URI.
func AsynqRedisOpt(uri string) (asynq.RedisConnOpt, error) {
	opts, err := redisOptions(uri)
	if err != nil {
		return nil, err
	}
	return asynq.RedisClientOpt{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}, nil
}

// InitAsynq creates the task client. It is skipped when Redis is not configured.
func InitAsynq(uri string) (*asynq.Client, error) {
	if uri == "" {
		return nil, nil
	}
	opt, err := AsynqRedisOpt(uri)
	if err != nil {
		return nil, err
	}
	AsynqClient = asynq.NewClient(opt)
	return AsynqClient, nil
}

package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	commonJs "turnos/common/jetstream"
	"turnos/common/otel"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// newCfg reads <name>.yaml. Values from the environment, or from an optional
// .env file, override it: EMAIL_PASSWORD overrides email.password.
func newCfg(name string) *viper.Viper {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalln(err)
	}

	config := viper.New()

	config.SetConfigName(name)
	config.SetConfigType("yaml")
	config.AddConfigPath(".")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	err := config.ReadInConfig()
	if err != nil {
		log.Fatalln(err)
	}

	err = os.Setenv("TZ", config.GetString("server.timezone"))
	if err != nil {
		log.Fatalln(err)
	}

	return config
}

func newRedis(cfg *viper.Viper) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       0,
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		log.Fatalln(err)
	}

	return rdb
}

func newNats(viper *viper.Viper) *nats.Conn {
	conn, err := nats.Connect(viper.GetString("nats.addr"))
	if err != nil {
		log.Fatalln(err)
	}

	return conn
}

func newJs(conn *nats.Conn) jetstream.JetStream {
	js, err := jetstream.New(conn)
	if err != nil {
		log.Fatalln(err)
	}

	return js
}

func createStreamWorkQueue(ctx context.Context, js jetstream.JetStream) jetstream.Stream {
	st, err := commonJs.CreateQueueStream(ctx, js)
	if err != nil {
		log.Fatalln("unable to create queue stream", err)
	}

	return st
}

func newTracing(ctx context.Context, cfg *viper.Viper) func() {
	shutdown := otel.Setup(ctx, cfg.GetString("otel.endpoint"), cfg.GetBool("otel.insecure"))

	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Println("unable to shutdown tracer provider", err)
		}
	}
}

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/caja-api/internal/application/ports"
	"github.com/jhoicas/caja-api/pkg/logger"
)

// RedisConfig conexión al servidor Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// RedisBus publica en un canal Redis y reparte lo recibido a los suscriptores
// locales a través de un Hub. Cada proceso corre su propio Run.
type RedisBus struct {
	client  *redis.Client
	channel string
	local   *Hub
	log     *logger.Logger
}

// NewRedisBus conecta y verifica el servidor con PING.
func NewRedisBus(ctx context.Context, cfg RedisConfig, log *logger.Logger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return &RedisBus{
		client:  client,
		channel: cfg.Channel,
		local:   NewHub(),
		log:     log.Component("redis_bus"),
	}, nil
}

// Publish serializa ev como JSON y lo publica en el canal.
func (b *RedisBus) Publish(ctx context.Context, ev ports.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis: serializar evento: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publicar %s: %w", ev.Type, err)
	}
	return nil
}

// Subscribe recibe los eventos de la empresa que llegan por el canal.
func (b *RedisBus) Subscribe(companyID string) (<-chan ports.Event, func()) {
	return b.local.Subscribe(companyID)
}

// Run escucha el canal hasta que ctx se cancele. Los mensajes inválidos se
// registran y se descartan.
func (b *RedisBus) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis: suscribir %s: %w", b.channel, err)
	}
	b.log.Info().Str("channel", b.channel).Msg("escuchando eventos de stock")

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("redis: canal de suscripción cerrado")
			}
			var ev ports.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn().Err(err).Msg("evento inválido descartado")
				continue
			}
			_ = b.local.Publish(ctx, ev)
		}
	}
}

// Close cierra la conexión.
func (b *RedisBus) Close() error {
	return b.client.Close()
}

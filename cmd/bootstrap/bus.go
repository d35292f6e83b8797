package bootstrap

import (
	"context"

	"device-reservation/internal/infra/bus"
	"device-reservation/internal/pkg/clock"
	"device-reservation/internal/pkg/config"
	"device-reservation/internal/usecase/commands"

	"go.uber.org/fx"
)

var BusModule = fx.Module("bus",
	fx.Provide(
		fx.Annotate(
			NewPublisher,
			fx.As(new(commands.EventPublisher)),
		),
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config, clock clock.Clock) (*bus.Publisher, error) {
	publisher, err := bus.NewPublisher(cfg.Bus.URL, cfg.Bus.Exchange, clock)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}
